package playback

import (
	"fmt"
	"time"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
)

// fakePrimitive records the commands it receives. Callbacks are delivered by
// the tests themselves through Controller.HandleEvent.
type fakePrimitive struct {
	calls  []string
	binds  []bindCall
	volume float64
}

type bindCall struct {
	generation uint64
	source     string
}

var _ media.Primitive = (*fakePrimitive)(nil)

func (f *fakePrimitive) Bind(generation uint64, source string) {
	f.calls = append(f.calls, fmt.Sprintf("bind:%d:%s", generation, source))
	f.binds = append(f.binds, bindCall{generation, source})
}

func (f *fakePrimitive) Play(generation uint64) {
	f.calls = append(f.calls, fmt.Sprintf("play:%d", generation))
}

func (f *fakePrimitive) Pause() { f.calls = append(f.calls, "pause") }

func (f *fakePrimitive) Stop() { f.calls = append(f.calls, "stop") }

func (f *fakePrimitive) Seek(position time.Duration) {
	f.calls = append(f.calls, fmt.Sprintf("seek:%s", position))
}

func (f *fakePrimitive) SetVolume(level float64) { f.volume = level }

func (f *fakePrimitive) Close() error { return nil }

func (f *fakePrimitive) lastBind() bindCall {
	return f.binds[len(f.binds)-1]
}

func (f *fakePrimitive) reset() {
	f.calls = nil
}

func (f *fakePrimitive) called(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func abcTracks() []catalog.Track {
	return []catalog.Track{
		{Title: "A", Artist: catalog.DefaultArtist, Source: "/music/a.mp3"},
		{Title: "B", Artist: catalog.DefaultArtist, Source: "/music/b.mp3"},
		{Title: "C", Artist: catalog.DefaultArtist, Source: "/music/c.mp3"},
	}
}

func newTestController(opts ...Option) (*Controller, *fakePrimitive) {
	prim := &fakePrimitive{}
	return New(prim, opts...), prim
}

func ready(generation uint64, duration time.Duration) media.Event {
	return media.Event{Kind: media.Ready, Generation: generation, Duration: duration}
}

func playing(generation uint64) media.Event {
	return media.Event{Kind: media.Playing, Generation: generation}
}
