package remote

import (
	"sync"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
)

// Board holds the latest published snapshot for HTTP readers, which run on
// goroutines other than the controller's loop.
type Board struct {
	mu     sync.RWMutex
	snap   playback.Snapshot
	tracks []catalog.Track
}

func NewBoard() *Board {
	return &Board{snap: playback.Snapshot{CurrentIndex: -1}}
}

// Follow subscribes the board to c. The catalog is copied only when it grew.
func (b *Board) Follow(c *playback.Controller) {
	c.Subscribe(func(s playback.Snapshot) {
		var tracks []catalog.Track
		if s.TrackCount != b.trackCount() {
			tracks = c.Tracks()
		}
		b.update(s, tracks)
	})
}

func (b *Board) update(s playback.Snapshot, tracks []catalog.Track) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = s
	if tracks != nil {
		b.tracks = tracks
	}
}

func (b *Board) trackCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tracks)
}

func (b *Board) Snapshot() playback.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

func (b *Board) Tracks() []catalog.Track {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]catalog.Track(nil), b.tracks...)
}
