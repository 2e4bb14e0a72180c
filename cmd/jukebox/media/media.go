// Package media defines the audio decode/output primitive the playback
// controller drives, and provides a beep-backed implementation of it.
//
// A primitive is bound to one source at a time. Every bind carries a
// generation number chosen by the caller, and every callback the primitive
// emits echoes the generation it belongs to, so the caller can discard
// callbacks from a superseded bind.
package media

import (
	"errors"
	"log/slog"
	"time"
)

var (
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrAudioUnavailable  = errors.New("audio output is not available in this build")
)

// Primitive is the single media output handle. Commands return immediately;
// outcomes are reported asynchronously through the Sink.
type Primitive interface {
	// Bind stops the current source and starts loading source. Emits Ready or
	// Failed when done.
	Bind(generation uint64, source string)
	// Play starts or resumes output of a ready source. Emits Playing on
	// success and Blocked if the runtime refuses output.
	Play(generation uint64)
	Pause()
	// Stop releases the bound source.
	Stop()
	Seek(position time.Duration)
	// SetVolume sets the gain, level in [0,1].
	SetVolume(level float64)
	Close() error
}

// Sink receives primitive callbacks in emission order.
type Sink func(Event)

type EventKind int

const (
	Ready   EventKind = iota // source loaded, Duration known
	Playing                  // output confirmed running
	Blocked                  // play was refused
	Tick                     // clock update
	Ended                    // source played to the end
	Failed                   // source could not be decoded or opened
)

func (k EventKind) String() string {
	switch k {
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Blocked:
		return "blocked"
	case Tick:
		return "tick"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a callback from the primitive.
type Event struct {
	Kind       EventKind
	Generation uint64
	Position   time.Duration
	Duration   time.Duration
	Err        error
}

type options struct {
	tickEvery  time.Duration
	sampleRate int
	log        *slog.Logger
}

// Option configures a Speaker.
type Option func(*options)

// WithTickInterval sets how often Tick events are emitted while playing.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tickEvery = d
		}
	}
}

// WithSampleRate sets the output device sample rate.
func WithSampleRate(rate int) Option {
	return func(o *options) {
		if rate > 0 {
			o.sampleRate = rate
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		tickEvery:  250 * time.Millisecond,
		sampleRate: 44100,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
