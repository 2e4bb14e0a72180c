package playback

import (
	"fmt"

	"github.com/google/uuid"
)

// Status is the visible playback state.
type Status int

const (
	Idle    Status = iota // no track bound, or catalog empty
	Loading               // source assigned, awaiting the primitive's ready callback
	Playing
	Paused
	Ended // track finished, position at end
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Idle, Loading, Playing, Paused, Ended} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown playback status %q", string(text))
}

// State is everything the transition function needs to decide the next step.
type State struct {
	Status Status
	// Current is the id of the selected track, uuid.Nil iff the catalog is empty.
	Current uuid.UUID
	// Generation tags the latest bind; callbacks carrying another value are stale.
	Generation uint64
	// Ready is set once the primitive reported the current bind loaded.
	Ready bool
	// RequestedAutoplay is the autoplay intention: whether playback should run
	// once the bound track is loaded.
	RequestedAutoplay bool
	LastError         error
}
