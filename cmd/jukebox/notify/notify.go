// Package notify raises desktop notifications for playback changes.
package notify

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/gigurra/jukebox/cmd/common"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
	"github.com/google/uuid"
)

// Notifier observes controller snapshots. It announces a track the first time
// it starts playing and reports tracks that could not be played.
type Notifier struct {
	send      func(title, message string)
	announced uuid.UUID
	lastErr   error
}

// New returns a Notifier that posts through the OS notification service.
// Posting happens off the caller's goroutine.
func New(log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	beeep.AppName = common.AppName
	return newNotifier(func(title, message string) {
		go func() {
			if err := beeep.Notify(title, message, ""); err != nil {
				log.Warn("failed to post notification", "error", err)
			}
		}()
	})
}

func newNotifier(send func(title, message string)) *Notifier {
	return &Notifier{send: send}
}

// Observe is meant to be registered with playback.WithObserver.
func (n *Notifier) Observe(snap playback.Snapshot) {
	if snap.State == playback.Playing && snap.CurrentTrack != nil && snap.CurrentTrack.ID != n.announced {
		n.announced = snap.CurrentTrack.ID
		n.send("Now playing", fmt.Sprintf("%s\n%s", snap.CurrentTrack.Title, snap.CurrentTrack.Artist))
	}

	if snap.LastError != n.lastErr {
		n.lastErr = snap.LastError
		var unplayable *playback.TrackUnplayableError
		if errors.As(snap.LastError, &unplayable) {
			n.send("Cannot play track", unplayable.Track.Title)
		}
	}
}
