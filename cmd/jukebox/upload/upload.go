// Package upload turns user-supplied audio files into catalog tracks. Files
// arrive as command-line paths, through a watched drop directory or as HTTP
// uploads kept in a blob store.
package upload

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/samber/lo"
)

// TrackFor builds the catalog entry for a single audio file.
func TrackFor(path string) catalog.Track {
	return catalog.Track{
		Title:  filepath.Base(path),
		Artist: catalog.DefaultArtist,
		Source: path,
	}
}

// FromPaths expands directories (recursively, in lexical order) and returns a
// track for every supported audio file, in the order given.
func FromPaths(paths []string) ([]catalog.Track, error) {
	var files []string
	for _, p := range paths {
		expanded, err := expand(p)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}

	files = lo.Filter(files, func(f string, _ int) bool { return media.IsSupported(f) })
	return lo.Map(files, func(f string, _ int) catalog.Track { return TrackFor(f) }), nil
}

func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return files, nil
}
