package playback

import (
	"errors"
	"fmt"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
)

var (
	// ErrPlaybackBlocked means the audio runtime refused to start output.
	// The user has to retry play.
	ErrPlaybackBlocked = errors.New("playback blocked")
	// ErrTrackUnplayable matches every *TrackUnplayableError.
	ErrTrackUnplayable = errors.New("track unplayable")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// TrackUnplayableError names the track the primitive could not decode or open.
type TrackUnplayableError struct {
	Track catalog.Track
	Err   error
}

func (e *TrackUnplayableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("track %q is unplayable", e.Track.Title)
	}
	return fmt.Sprintf("track %q is unplayable: %v", e.Track.Title, e.Err)
}

func (e *TrackUnplayableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTrackUnplayable}
	}
	return []error{ErrTrackUnplayable, e.Err}
}

func blockedError(cause error) error {
	if cause == nil {
		return ErrPlaybackBlocked
	}
	return fmt.Errorf("%w: %v", ErrPlaybackBlocked, cause)
}
