package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/google/uuid"
)

// Store keeps uploaded blobs on disk so the media primitive can open them.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save copies r into the store. The returned track carries the uploaded
// file's name as title and the same id that names the blob on disk.
func (s *Store) Save(filename string, r io.Reader) (catalog.Track, error) {
	name := filepath.Base(filename)
	if !media.IsSupported(name) {
		return catalog.Track{}, fmt.Errorf("%w: %s", media.ErrUnsupportedFormat, name)
	}

	id := uuid.New()
	path := filepath.Join(s.dir, id.String()+strings.ToLower(filepath.Ext(name)))

	f, err := os.Create(path)
	if err != nil {
		return catalog.Track{}, fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return catalog.Track{}, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return catalog.Track{}, fmt.Errorf("failed to write blob: %w", err)
	}

	track := TrackFor(path)
	track.ID = id
	track.Title = name
	return track, nil
}
