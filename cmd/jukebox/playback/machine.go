// Package playback implements the playback controller: a pure transition
// function over (State, Event) and a Controller that owns the catalog, the
// media primitive handle and the derived progress and volume views.
package playback

import (
	"time"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/google/uuid"
)

// Tracks is the read-only view of the catalog the transition function uses.
type Tracks interface {
	Len() int
	Get(index int) (catalog.Track, bool)
	IndexOf(id uuid.UUID) (int, bool)
	NextIndex(current int) int
	PrevIndex(current int) int
}

// Options are product decisions that change transitions.
type Options struct {
	// AutoAdvance binds and plays the next track when one ends.
	AutoAdvance bool
}

// Event is an input to Step: a user command or a primitive callback.
type Event interface{ event() }

type (
	CmdSelect   struct{ Index int }
	CmdPlay     struct{}
	CmdPause    struct{}
	CmdNext     struct{}
	CmdPrevious struct{}
	CmdSeek     struct{ Position time.Duration }
	// CmdCatalogGrew is raised after tracks were appended.
	CmdCatalogGrew struct{}
	// Callback wraps an event reported by the media primitive.
	Callback struct{ media.Event }
)

func (CmdSelect) event()      {}
func (CmdPlay) event()        {}
func (CmdPause) event()       {}
func (CmdNext) event()        {}
func (CmdPrevious) event()    {}
func (CmdSeek) event()        {}
func (CmdCatalogGrew) event() {}
func (Callback) event()       {}

// Effect is an instruction for the media primitive or the progress reporter.
type Effect interface{ effect() }

type (
	FxStop struct{}
	FxBind struct {
		Track      catalog.Track
		Generation uint64
	}
	FxPlay          struct{ Generation uint64 }
	FxPause         struct{}
	FxSeek          struct{ Position time.Duration }
	FxResetProgress struct{}
	FxProgress      struct{ Position, Duration time.Duration }
)

func (FxStop) effect()          {}
func (FxBind) effect()          {}
func (FxPlay) effect()          {}
func (FxPause) effect()         {}
func (FxSeek) effect()          {}
func (FxResetProgress) effect() {}
func (FxProgress) effect()      {}

// Step computes the next state and the effects to perform. It has no side
// effects of its own.
func Step(s State, tracks Tracks, opts Options, ev Event) (State, []Effect) {
	if cb, ok := ev.(Callback); ok {
		return onCallback(s, tracks, opts, cb.Event)
	}

	// Commands against an empty catalog are silent no-ops.
	if tracks.Len() == 0 {
		return s, nil
	}

	switch e := ev.(type) {
	case CmdSelect:
		if _, ok := tracks.Get(e.Index); !ok {
			return s, nil
		}
		s.LastError = nil
		return bind(s, tracks, e.Index)

	case CmdPlay:
		s.LastError = nil
		return play(s, tracks)

	case CmdPause:
		s.LastError = nil
		s.RequestedAutoplay = false
		if s.Status != Playing {
			return s, nil
		}
		s.Status = Paused
		return s, []Effect{FxPause{}}

	case CmdNext:
		s.LastError = nil
		return bind(s, tracks, tracks.NextIndex(currentIndex(s, tracks)))

	case CmdPrevious:
		s.LastError = nil
		return bind(s, tracks, tracks.PrevIndex(currentIndex(s, tracks)))

	case CmdSeek:
		s.LastError = nil
		return seek(s, e.Position)

	case CmdCatalogGrew:
		if _, ok := tracks.IndexOf(s.Current); ok {
			return s, nil
		}
		return bind(s, tracks, 0)
	}

	return s, nil
}

func currentIndex(s State, tracks Tracks) int {
	if i, ok := tracks.IndexOf(s.Current); ok {
		return i
	}
	return -1
}

// bind stops the primitive, rebinds it to the track at index under a new
// generation and moves to Loading. The autoplay intention is left as is.
func bind(s State, tracks Tracks, index int) (State, []Effect) {
	track, ok := tracks.Get(index)
	if !ok {
		return s, nil
	}
	s.Generation++
	s.Current = track.ID
	s.Status = Loading
	s.Ready = false
	return s, []Effect{
		FxStop{},
		FxResetProgress{},
		FxBind{Track: track, Generation: s.Generation},
	}
}

// play records the intention and issues play when the bound track is ready.
// The state moves to Playing only on the primitive's confirmation.
func play(s State, tracks Tracks) (State, []Effect) {
	s.RequestedAutoplay = true
	switch s.Status {
	case Idle:
		index := currentIndex(s, tracks)
		if index < 0 {
			index = 0
		}
		return bind(s, tracks, index)
	case Loading:
		if s.Ready {
			return s, []Effect{FxPlay{Generation: s.Generation}}
		}
		return s, nil
	case Paused:
		return s, []Effect{FxPlay{Generation: s.Generation}}
	case Ended:
		return s, []Effect{FxSeek{Position: 0}, FxPlay{Generation: s.Generation}}
	}
	return s, nil
}

func seek(s State, position time.Duration) (State, []Effect) {
	if !s.Ready {
		return s, nil
	}
	if position < 0 {
		position = 0
	}
	switch s.Status {
	case Ended:
		s.Status = Paused
	case Playing, Paused, Loading:
	default:
		return s, nil
	}
	return s, []Effect{FxSeek{Position: position}}
}

func onCallback(s State, tracks Tracks, opts Options, ev media.Event) (State, []Effect) {
	if ev.Generation != s.Generation || s.Current == uuid.Nil {
		return s, nil
	}

	switch ev.Kind {
	case media.Ready:
		if s.Status != Loading {
			return s, nil
		}
		s.Ready = true
		effects := []Effect{FxProgress{Duration: ev.Duration}}
		if s.RequestedAutoplay {
			return s, append(effects, FxPlay{Generation: s.Generation})
		}
		s.Status = Paused
		return s, effects

	case media.Playing:
		if !s.Ready {
			return s, nil
		}
		if !s.RequestedAutoplay {
			// The intention was withdrawn while the play command was in flight.
			s.Status = Paused
			return s, []Effect{FxPause{}}
		}
		s.Status = Playing
		if ev.Duration <= 0 {
			return s, nil
		}
		return s, []Effect{FxProgress{Position: ev.Position, Duration: ev.Duration}}

	case media.Blocked:
		s.RequestedAutoplay = false
		s.LastError = blockedError(ev.Err)
		switch {
		case s.Status == Loading && s.Ready:
			s.Status = Paused
		case s.Status == Ended:
			// replay already rewound to the start
			s.Status = Paused
		}
		return s, nil

	case media.Tick:
		return s, []Effect{FxProgress{Position: ev.Position, Duration: ev.Duration}}

	case media.Ended:
		if s.Status != Playing {
			return s, nil
		}
		s.Status = Ended
		s.RequestedAutoplay = false
		effects := []Effect{FxProgress{Position: ev.Duration, Duration: ev.Duration}}
		if opts.AutoAdvance {
			s.RequestedAutoplay = true
			next, bindEffects := bind(s, tracks, tracks.NextIndex(currentIndex(s, tracks)))
			return next, append(effects, bindEffects...)
		}
		return s, effects

	case media.Failed:
		var track catalog.Track
		if i, ok := tracks.IndexOf(s.Current); ok {
			track, _ = tracks.Get(i)
		}
		s.Status = Idle
		s.Ready = false
		s.LastError = &TrackUnplayableError{Track: track, Err: ev.Err}
		return s, []Effect{FxStop{}, FxResetProgress{}}
	}

	return s, nil
}
