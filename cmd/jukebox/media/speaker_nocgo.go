//go:build !((linux && cgo) || windows || darwin)

package media

import "time"

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio output requires cgo for the native sound libraries.
const AudioAvailable = false

// Speaker is a stand-in for builds without audio output. Every bind fails, so
// the controller ends up Idle with an unplayable-track error.
type Speaker struct {
	out *outbox
}

var _ Primitive = (*Speaker)(nil)

func NewSpeaker(sink Sink, opts ...Option) *Speaker {
	return &Speaker{out: newOutbox(sink)}
}

func (s *Speaker) Bind(generation uint64, source string) {
	s.out.push(Event{Kind: Failed, Generation: generation, Err: ErrAudioUnavailable})
}

func (s *Speaker) Play(generation uint64) {}

func (s *Speaker) Pause() {}

func (s *Speaker) Stop() {}

func (s *Speaker) Seek(position time.Duration) {}

func (s *Speaker) SetVolume(level float64) {}

func (s *Speaker) Close() error {
	s.out.close()
	return nil
}
