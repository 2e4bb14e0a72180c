package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/google/uuid"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func titles(tracks []catalog.Track) []string {
	out := make([]string, len(tracks))
	for i, tr := range tracks {
		out[i] = tr.Title
	}
	return out
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.mp3"))
	touch(t, filepath.Join(dir, "album", "02.ogg"))
	touch(t, filepath.Join(dir, "album", "01.WAV"))
	touch(t, filepath.Join(dir, "album", "cover.jpg"))
	touch(t, filepath.Join(dir, "notes.txt"))

	tracks, err := FromPaths([]string{
		filepath.Join(dir, "z.mp3"),
		filepath.Join(dir, "album"),
		filepath.Join(dir, "notes.txt"),
	})
	if err != nil {
		t.Fatalf("FromPaths: %v", err)
	}

	want := []string{"z.mp3", "01.WAV", "02.ogg"}
	got := titles(tracks)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("titles = %v, want %v", got, want)
	}
	for _, tr := range tracks {
		if tr.Artist != catalog.DefaultArtist {
			t.Errorf("Artist = %q, want %q", tr.Artist, catalog.DefaultArtist)
		}
		if tr.ID != uuid.Nil {
			t.Errorf("ID assigned before the catalog saw the track: %v", tr.ID)
		}
		if !filepath.IsAbs(tr.Source) {
			t.Errorf("Source = %q, want the given path", tr.Source)
		}
	}
}

func TestFromPaths_Missing(t *testing.T) {
	_, err := FromPaths([]string{filepath.Join(t.TempDir(), "nope.mp3")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestStore_Save(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "blobs"))
	if err != nil {
		t.Fatal(err)
	}

	track, err := store.Save("../My Song.MP3", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if track.Title != "My Song.MP3" || track.Artist != catalog.DefaultArtist {
		t.Errorf("track = %+v", track)
	}
	if track.ID == uuid.Nil {
		t.Error("stored track has no id")
	}
	if want := filepath.Join(store.Dir(), track.ID.String()+".mp3"); track.Source != want {
		t.Errorf("Source = %q, want %q", track.Source, want)
	}
	data, err := os.ReadFile(track.Source)
	if err != nil || string(data) != "data" {
		t.Errorf("blob = %q, %v", data, err)
	}
}

func TestStore_RejectsUnsupported(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.Save("evil.exe", strings.NewReader("x"))
	if !errors.Is(err, media.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	entries, _ := os.ReadDir(store.Dir())
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files", len(entries))
	}
}

func TestWatcher_ReportsExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.mp3"))

	found := make(chan []catalog.Track, 8)
	w, err := NewWatcher(dir, func(tracks []catalog.Track) { found <- tracks }, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.StartAsync()
	defer w.Stop()

	expect := func(title string) {
		t.Helper()
		select {
		case tracks := <-found:
			if len(tracks) != 1 || tracks[0].Title != title {
				t.Errorf("found %v, want [%s]", titles(tracks), title)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", title)
		}
	}

	expect("old.mp3")
	touch(t, filepath.Join(dir, "readme.txt"))
	touch(t, filepath.Join(dir, "new.ogg"))
	expect("new.ogg")
}
