package notify

import (
	"errors"
	"testing"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
	"github.com/google/uuid"
)

type sent struct{ title, message string }

func recorder() (*Notifier, *[]sent) {
	var log []sent
	return newNotifier(func(title, message string) {
		log = append(log, sent{title, message})
	}), &log
}

func TestNotifier_AnnouncesEachTrackOnce(t *testing.T) {
	n, log := recorder()
	a := &catalog.Track{ID: uuid.New(), Title: "A", Artist: "X"}
	b := &catalog.Track{ID: uuid.New(), Title: "B", Artist: "Y"}

	n.Observe(playback.Snapshot{State: playback.Loading, CurrentTrack: a})
	n.Observe(playback.Snapshot{State: playback.Playing, CurrentTrack: a})
	n.Observe(playback.Snapshot{State: playback.Paused, CurrentTrack: a})
	n.Observe(playback.Snapshot{State: playback.Playing, CurrentTrack: a})
	n.Observe(playback.Snapshot{State: playback.Playing, CurrentTrack: b})

	want := []sent{{"Now playing", "A\nX"}, {"Now playing", "B\nY"}}
	if len(*log) != len(want) {
		t.Fatalf("sent = %v, want %v", *log, want)
	}
	for i := range want {
		if (*log)[i] != want[i] {
			t.Errorf("sent[%d] = %v, want %v", i, (*log)[i], want[i])
		}
	}
}

func TestNotifier_ReportsUnplayableOnce(t *testing.T) {
	n, log := recorder()
	failure := &playback.TrackUnplayableError{Track: catalog.Track{Title: "broken.mp3"}, Err: errors.New("bad header")}

	n.Observe(playback.Snapshot{State: playback.Idle, LastError: failure})
	n.Observe(playback.Snapshot{State: playback.Idle, LastError: failure})
	n.Observe(playback.Snapshot{State: playback.Paused, LastError: playback.ErrPlaybackBlocked})

	if len(*log) != 1 || (*log)[0] != (sent{"Cannot play track", "broken.mp3"}) {
		t.Errorf("sent = %v", *log)
	}
}
