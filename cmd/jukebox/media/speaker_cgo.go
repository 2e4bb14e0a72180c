//go:build (linux && cgo) || windows || darwin

package media

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

// Speaker plays sources through the system audio device using beep.
type Speaker struct {
	mu sync.Mutex

	out         *outbox
	log         *slog.Logger
	sampleRate  beep.SampleRate
	tickEvery   time.Duration
	initialized bool
	closed      bool

	generation uint64
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	queued     bool   // chain is currently mixed into the speaker
	run        uint64 // incremented per queued chain
	level      float64
	stopTick   chan struct{}
}

var _ Primitive = (*Speaker)(nil)

// NewSpeaker creates a speaker that reports callbacks to sink.
func NewSpeaker(sink Sink, opts ...Option) *Speaker {
	o := buildOptions(opts)
	return &Speaker{
		out:        newOutbox(sink),
		log:        o.log,
		sampleRate: beep.SampleRate(o.sampleRate),
		tickEvery:  o.tickEvery,
		level:      1,
	}
}

func (s *Speaker) Bind(generation uint64, source string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.releaseLocked()
	s.generation = generation
	s.mu.Unlock()

	go s.load(generation, source)
}

// load decodes in the background; a slow decode for a superseded generation
// is thrown away.
func (s *Speaker) load(generation uint64, source string) {
	streamer, format, err := Decode(source)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || generation != s.generation {
		if err == nil {
			streamer.Close()
		}
		return
	}
	if err != nil {
		s.log.Debug("decode failed", "source", source, "error", err)
		s.out.push(Event{Kind: Failed, Generation: generation, Err: err})
		return
	}

	s.streamer = streamer
	s.format = format
	s.out.push(Event{
		Kind:       Ready,
		Generation: generation,
		Duration:   format.SampleRate.D(streamer.Len()),
	})
}

func (s *Speaker) Play(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.streamer == nil {
		return
	}
	if err := s.initLocked(); err != nil {
		s.log.Warn("speaker init failed", "error", err)
		s.out.push(Event{Kind: Blocked, Generation: generation, Err: err})
		return
	}

	if !s.queued {
		speaker.Lock()
		if s.streamer.Position() >= s.streamer.Len() {
			_ = s.streamer.Seek(0)
		}
		speaker.Unlock()

		s.buildChainLocked()
		s.queued = true
		s.run++
		run := s.run
		speaker.Play(beep.Seq(s.volume, beep.Callback(func() {
			// Runs on the speaker goroutine with the speaker locked.
			go s.finished(generation, run)
		})))
	} else {
		speaker.Lock()
		s.ctrl.Paused = false
		speaker.Unlock()
	}

	s.startTickerLocked(generation)
	pos, dur := s.clockLocked()
	s.out.push(Event{Kind: Playing, Generation: generation, Position: pos, Duration: dur})
}

func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTickerLocked()
	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Speaker) Seek(position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return
	}
	n := s.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}

	speaker.Lock()
	if n > s.streamer.Len() {
		n = s.streamer.Len()
	}
	err := s.streamer.Seek(n)
	speaker.Unlock()

	if err != nil {
		s.log.Warn("seek failed", "position", position, "error", err)
		return
	}
	pos, dur := s.clockLocked()
	s.out.push(Event{Kind: Tick, Generation: s.generation, Position: pos, Duration: dur})
}

func (s *Speaker) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = level
	if s.volume != nil {
		speaker.Lock()
		applyLevel(s.volume, level)
		speaker.Unlock()
	}
}

func (s *Speaker) Close() error {
	s.mu.Lock()
	s.releaseLocked()
	s.closed = true
	s.mu.Unlock()

	s.out.close()
	return nil
}

// finished handles the end-of-stream callback.
func (s *Speaker) finished(generation, run uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || run != s.run || !s.queued {
		return
	}
	s.queued = false
	s.stopTickerLocked()
	pos, dur := s.clockLocked()
	s.out.push(Event{Kind: Ended, Generation: generation, Position: pos, Duration: dur})
}

func (s *Speaker) initLocked() error {
	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// buildChainLocked wraps the bound streamer in resample -> pause -> gain.
// A chain that already ran to completion cannot be reused, so every queueing
// builds a fresh one.
func (s *Speaker) buildChainLocked() {
	resampled := beep.Resample(4, s.format.SampleRate, s.sampleRate, s.streamer)
	s.ctrl = &beep.Ctrl{Streamer: resampled, Paused: false}
	s.volume = &effects.Volume{Streamer: s.ctrl}
	applyLevel(s.volume, s.level)
}

func (s *Speaker) releaseLocked() {
	s.stopTickerLocked()
	if s.queued {
		speaker.Clear()
		s.queued = false
	}
	if s.streamer != nil {
		s.streamer.Close()
		s.streamer = nil
	}
	s.ctrl = nil
	s.volume = nil
}

func (s *Speaker) clockLocked() (position, duration time.Duration) {
	if s.streamer == nil {
		return 0, 0
	}
	speaker.Lock()
	p, l := s.streamer.Position(), s.streamer.Len()
	speaker.Unlock()
	return s.format.SampleRate.D(p), s.format.SampleRate.D(l)
}

func (s *Speaker) startTickerLocked(generation uint64) {
	s.stopTickerLocked()
	stop := make(chan struct{})
	s.stopTick = stop

	go func() {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tick(generation)
			}
		}
	}()
}

func (s *Speaker) stopTickerLocked() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

func (s *Speaker) tick(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.stopTick == nil {
		return
	}
	pos, dur := s.clockLocked()
	s.out.push(Event{Kind: Tick, Generation: generation, Position: pos, Duration: dur})
}
