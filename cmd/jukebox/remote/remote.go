// Package remote exposes the player over HTTP. Reads are served from a Board;
// commands are forwarded into the controller's event loop.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
	"github.com/gigurra/jukebox/cmd/jukebox/progress"
	"github.com/gigurra/jukebox/cmd/jukebox/upload"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxUploadMemory = 32 << 20

var ErrUploadsDisabled = errors.New("uploads are disabled")

type Server struct {
	board *Board
	send  func(any)
	store *upload.Store
	log   *slog.Logger
}

// NewServer creates the API. send must hand messages to the goroutine that
// owns the controller. store may be nil, which disables uploads.
func NewServer(board *Board, send func(any), store *upload.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{board: board, send: send, store: store, log: log}
}

func (s *Server) InitRouter(r chi.Router) {
	r.Use(jsonCtx)
	r.Get("/status", s.getStatus)
	r.Get("/tracks", s.getTracks)
	r.Post("/tracks", s.uploadTracks)
	r.Post("/play", s.command(playback.CmdPlay{}))
	r.Post("/pause", s.command(playback.CmdPause{}))
	r.Post("/next", s.command(playback.CmdNext{}))
	r.Post("/previous", s.command(playback.CmdPrevious{}))
	r.Post("/select", s.selectTrack)
	r.Post("/seek", s.seek)
	r.Post("/volume", s.setVolume)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	s.InitRouter(r)
	return r
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:           addr,
		Handler:        s.Handler(),
		ReadTimeout:    time.Minute,
		WriteTimeout:   time.Minute,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.log.Info("remote control listening", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// writeError writes err as a 400 response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Warn("remote request failed", "remote", r.RemoteAddr, "path", r.URL.Path, "error", err)
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"error": err.Error(),
	})
}

func jsonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("remote request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

type trackJSON struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

func toTrackJSON(t catalog.Track) trackJSON {
	return trackJSON{ID: t.ID.String(), Title: t.Title, Artist: t.Artist}
}

type statusJSON struct {
	State        playback.Status   `json:"state"`
	CurrentIndex int               `json:"currentIndex"`
	Track        *trackJSON        `json:"track,omitempty"`
	TrackCount   int               `json:"trackCount"`
	Progress     progress.Snapshot `json:"progress"`
	Volume       float64           `json:"volume"`
	LastError    string            `json:"lastError,omitempty"`
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.board.Snapshot()
	status := statusJSON{
		State:        snap.State,
		CurrentIndex: snap.CurrentIndex,
		TrackCount:   snap.TrackCount,
		Progress:     snap.Progress,
		Volume:       snap.Volume,
	}
	if snap.CurrentTrack != nil {
		t := toTrackJSON(*snap.CurrentTrack)
		status.Track = &t
	}
	if snap.LastError != nil {
		status.LastError = snap.LastError.Error()
	}
	json.NewEncoder(w).Encode(status)
}

func (s *Server) getTracks(w http.ResponseWriter, r *http.Request) {
	tracks := s.board.Tracks()
	out := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		out[i] = toTrackJSON(t)
	}
	json.NewEncoder(w).Encode(map[string]any{"tracks": out})
}

func (s *Server) command(msg playback.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.send(msg)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("{}"))
	}
}

func (s *Server) selectTrack(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Index *int `json:"index"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeError(w, r, err)
		return
	}
	if data.Index == nil {
		s.writeError(w, r, errors.New("missing index"))
		return
	}
	if n := len(s.board.Tracks()); *data.Index < 0 || *data.Index >= n {
		s.writeError(w, r, fmt.Errorf("%w: %d (have %d tracks)", playback.ErrIndexOutOfRange, *data.Index, n))
		return
	}
	s.command(playback.CmdSelect{Index: *data.Index})(w, r)
}

func (s *Server) seek(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Seconds float64 `json:"seconds"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeError(w, r, err)
		return
	}
	position := time.Duration(data.Seconds * float64(time.Second))
	s.command(playback.CmdSeek{Position: position})(w, r)
}

func (s *Server) setVolume(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Volume float64 `json:"volume"`
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(playback.ChangeVolume{Level: data.Volume})
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("{}"))
}

// uploadTracks stores every "file" part of a multipart form and queues the
// resulting tracks in the order they were sent.
func (s *Server) uploadTracks(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrUploadsDisabled)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		s.writeError(w, r, errors.New("no files in upload"))
		return
	}

	tracks := make([]catalog.Track, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		track, err := s.store.Save(fh.Filename, f)
		f.Close()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		tracks = append(tracks, track)
	}

	s.log.Info("received upload", "count", len(tracks))
	s.send(playback.AppendTracks{Tracks: tracks})

	out := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		out[i] = toTrackJSON(t)
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"tracks": out})
}
