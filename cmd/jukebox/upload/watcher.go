package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
)

// Watcher reports audio files dropped into a directory. Each file is
// reported once, including the ones already present when watching starts.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	handler func([]catalog.Track)
	seen    map[string]bool
	log     *slog.Logger
	done    chan struct{}
}

// NewWatcher watches dir (created if missing) and calls handler from the
// watcher goroutine with newly found tracks.
func NewWatcher(dir string, handler func([]catalog.Track), log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:     dir,
		watcher: fsw,
		handler: handler,
		seen:    map[string]bool{},
		log:     log,
		done:    make(chan struct{}),
	}, nil
}

// Start reports existing files, then blocks reporting new ones until Stop.
func (w *Watcher) Start() {
	w.scan()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
				// give the writer a moment to finish
				time.Sleep(50 * time.Millisecond)
				w.scan()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "dir", w.dir, "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) StartAsync() {
	go w.Start()
}

func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Warn("failed to read watch dir", "dir", w.dir, "error", err)
		return
	}

	var found []catalog.Track
	for _, e := range entries {
		path := filepath.Join(w.dir, e.Name())
		if e.IsDir() || w.seen[path] || !media.IsSupported(path) {
			continue
		}
		w.seen[path] = true
		found = append(found, TrackFor(path))
	}

	if len(found) > 0 {
		w.log.Info("found dropped tracks", "dir", w.dir, "count", len(found))
		w.handler(found)
	}
}
