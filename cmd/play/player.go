package play

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gigurra/jukebox/cmd/common"
	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/gigurra/jukebox/cmd/jukebox/notify"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
	"github.com/gigurra/jukebox/cmd/jukebox/progress"
	"github.com/gigurra/jukebox/cmd/jukebox/remote"
	"github.com/gigurra/jukebox/cmd/jukebox/settings"
	"github.com/gigurra/jukebox/cmd/jukebox/tui"
	"github.com/gigurra/jukebox/cmd/jukebox/upload"
)

// player wires the speaker, the controller and the optional collaborators.
// send is whatever hands a message to the goroutine owning the controller.
type player struct {
	cfg     *settings.Config
	log     *slog.Logger
	send    func(any)
	speaker *media.Speaker
	ctrl    *playback.Controller
	watcher *upload.Watcher
}

func newPlayer(cfg *settings.Config, log *slog.Logger) *player {
	p := &player{cfg: cfg, log: log}
	p.speaker = media.NewSpeaker(
		func(ev media.Event) { p.send(ev) },
		media.WithTickInterval(cfg.TickInterval()),
		media.WithLogger(log),
	)
	if !media.AudioAvailable {
		log.Warn("built without audio output, every track will fail to play")
	}

	opts := []playback.Option{
		playback.WithAutoAdvance(cfg.Playback.AutoAdvance),
		playback.WithVolume(cfg.Playback.Volume),
		playback.WithLogger(log),
	}
	if cfg.Notifications.Enabled {
		opts = append(opts, playback.WithObserver(notify.New(log).Observe))
	}
	p.ctrl = playback.New(p.speaker, opts...)
	return p
}

// start launches the drop-directory watcher and the remote control. Both
// must only run once p.send is set.
func (p *player) start(ctx context.Context) error {
	if dir := p.cfg.Library.WatchDir; dir != "" {
		w, err := upload.NewWatcher(dir, func(tracks []catalog.Track) {
			p.send(playback.AppendTracks{Tracks: tracks})
		}, p.log)
		if err != nil {
			return err
		}
		p.watcher = w
		w.StartAsync()
	}

	if p.cfg.Remote.Enabled {
		board := remote.NewBoard()
		board.Follow(p.ctrl)
		store, err := upload.NewStore(common.UploadDir())
		if err != nil {
			return err
		}
		srv := remote.NewServer(board, p.send, store, p.log)
		go func() {
			if err := srv.ListenAndServe(ctx, p.cfg.Remote.Listen); err != nil {
				p.log.Error("remote control stopped", "error", err)
			}
		}()
	}
	return nil
}

func (p *player) runInteractive(ctx context.Context, initial []catalog.Track) error {
	program := tui.NewProgram(p.ctrl, initial)
	p.send = func(msg any) { program.Send(msg) }
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if err := p.start(ctx); err != nil {
		return err
	}
	_, err := program.Run()
	return err
}

func (p *player) runHeadless(ctx context.Context, initial []catalog.Track) error {
	inbox := make(chan any, 64)
	p.send = func(msg any) {
		select {
		case inbox <- msg:
		case <-ctx.Done():
		}
	}
	p.ctrl.Subscribe(logNowPlaying(p.log))

	if err := p.start(ctx); err != nil {
		return err
	}
	if len(initial) > 0 {
		p.send(playback.AppendTracks{Tracks: initial})
		p.send(playback.CmdPlay{})
	}

	err := p.ctrl.Run(ctx, inbox)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *player) close() {
	if p.watcher != nil {
		p.watcher.Stop()
	}
	if err := p.speaker.Close(); err != nil {
		p.log.Warn("failed to close speaker", "error", err)
	}
}

// logNowPlaying reports track changes and errors for headless runs.
func logNowPlaying(log *slog.Logger) func(playback.Snapshot) {
	lastIndex := -1
	var lastState playback.Status
	return func(s playback.Snapshot) {
		if s.State == lastState && s.CurrentIndex == lastIndex {
			return
		}
		lastState, lastIndex = s.State, s.CurrentIndex
		if s.CurrentTrack == nil {
			return
		}
		log.Info("playback",
			"state", s.State,
			"track", s.CurrentTrack.Title,
			"index", s.CurrentIndex,
			"duration", progress.FormatTime(s.Progress.DurationSeconds))
	}
}
