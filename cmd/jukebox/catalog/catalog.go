// Package catalog holds the ordered list of tracks the player can choose from.
package catalog

import (
	"github.com/google/uuid"
)

// DefaultArtist is used for tracks whose artist is not known.
const DefaultArtist = "Unknown Artist"

// Track is a single playable entry. Tracks are never mutated once appended.
type Track struct {
	ID     uuid.UUID // Stable identity, assigned on append
	Title  string    // Display title (typically the file name)
	Artist string    // Display artist
	Source string    // File path, file:// URI or uploaded blob path
}

// Catalog is an append-only, insertion-ordered collection of tracks.
// It is not safe for concurrent use; the playback controller owns it.
type Catalog struct {
	tracks []Track
	index  map[uuid.UUID]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		tracks: make([]Track, 0),
		index:  make(map[uuid.UUID]int),
	}
}

// Append adds tracks to the end of the catalog, preserving arrival order.
// Tracks without an ID get a fresh random one. The stored tracks are returned.
func (c *Catalog) Append(tracks ...Track) []Track {
	added := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		if _, exists := c.index[t.ID]; exists {
			// same id twice would make IndexOf ambiguous
			t.ID = uuid.New()
		}
		c.index[t.ID] = len(c.tracks)
		c.tracks = append(c.tracks, t)
		added = append(added, t)
	}
	return added
}

// Get returns the track at index, or false if index is out of range.
func (c *Catalog) Get(index int) (Track, bool) {
	if index < 0 || index >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[index], true
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Tracks returns a copy of all tracks in order.
func (c *Catalog) Tracks() []Track {
	result := make([]Track, len(c.tracks))
	copy(result, c.tracks)
	return result
}

// IndexOf resolves a track id to its current position.
func (c *Catalog) IndexOf(id uuid.UUID) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// NextIndex returns the index after current, wrapping to 0 after the last
// entry. Returns -1 for an empty catalog.
func (c *Catalog) NextIndex(current int) int {
	n := len(c.tracks)
	if n == 0 {
		return -1
	}
	if current < 0 || current >= n-1 {
		return 0
	}
	return current + 1
}

// PrevIndex returns the index before current, wrapping to the last entry
// when at 0. Returns -1 for an empty catalog.
func (c *Catalog) PrevIndex(current int) int {
	n := len(c.tracks)
	if n == 0 {
		return -1
	}
	if current <= 0 || current >= n {
		return n - 1
	}
	return current - 1
}
