package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
)

type fakePrimitive struct {
	plays int
	seeks []time.Duration
}

func (f *fakePrimitive) Bind(uint64, string) {}
func (f *fakePrimitive) Play(uint64) { f.plays++ }
func (f *fakePrimitive) Pause() {}
func (f *fakePrimitive) Stop() {}
func (f *fakePrimitive) Seek(p time.Duration) { f.seeks = append(f.seeks, p) }
func (f *fakePrimitive) SetVolume(float64) {}
func (f *fakePrimitive) Close() error { return nil }

func tracks(titles ...string) []catalog.Track {
	out := make([]catalog.Track, len(titles))
	for i, t := range titles {
		out[i] = catalog.Track{Title: t, Artist: catalog.DefaultArtist, Source: "/" + t}
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send runs msgs through Update like the bubbletea loop would.
func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func loaded(t *testing.T, titles ...string) (model, *fakePrimitive) {
	t.Helper()
	prim := &fakePrimitive{}
	m := newModel(playback.New(prim), tracks(titles...))
	msg := m.Init()()
	return send(t, m, msg), prim
}

func TestInit_QueuesInitialTracks(t *testing.T) {
	m, _ := loaded(t, "one.mp3", "two.mp3")
	if m.snap.TrackCount != 2 || len(m.tracks) != 2 {
		t.Fatalf("snapshot = %+v", m.snap)
	}
	if m.snap.State != playback.Loading || m.snap.CurrentIndex != 0 {
		t.Errorf("snapshot = %+v, want loading the first track", m.snap)
	}

	empty := newModel(playback.New(&fakePrimitive{}), nil)
	if empty.Init() != nil {
		t.Error("Init with no tracks should not issue a command")
	}
}

func TestUpdate_PlayPauseThroughMediaEvents(t *testing.T) {
	m, prim := loaded(t, "one.mp3", "two.mp3")

	m = send(t, m, media.Event{Kind: media.Ready, Generation: 1, Duration: time.Minute})
	if m.snap.State != playback.Paused {
		t.Fatalf("State = %v, want paused", m.snap.State)
	}

	m = send(t, m, key(" "))
	if prim.plays != 1 {
		t.Errorf("plays = %d, want 1", prim.plays)
	}
	m = send(t, m, media.Event{Kind: media.Playing, Generation: 1, Duration: time.Minute})
	if m.snap.State != playback.Playing {
		t.Errorf("State = %v, want playing", m.snap.State)
	}

	m = send(t, m, key(" "))
	if m.snap.State != playback.Paused {
		t.Errorf("State = %v, want paused", m.snap.State)
	}
}

func TestUpdate_NavigationMovesCursor(t *testing.T) {
	m, _ := loaded(t, "a", "b", "c")

	m = send(t, m, key("n"))
	if m.snap.CurrentIndex != 1 || m.cursor != 1 {
		t.Errorf("after next: index %d cursor %d", m.snap.CurrentIndex, m.cursor)
	}
	m = send(t, m, key("p"), key("p"))
	if m.snap.CurrentIndex != 2 || m.cursor != 2 {
		t.Errorf("after previous twice: index %d cursor %d", m.snap.CurrentIndex, m.cursor)
	}

	m = send(t, m, key("up"), key("up"), key("up"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m = send(t, m, key("down"), key("enter"))
	if m.snap.CurrentIndex != 1 {
		t.Errorf("enter selected %d, want 1", m.snap.CurrentIndex)
	}
	if !m.ctrl.RequestedAutoplay() {
		t.Error("enter should request playback")
	}
}

func TestUpdate_VolumeAndSeek(t *testing.T) {
	m, prim := loaded(t, "a")
	m = send(t, m, key("-"), key("-"))
	if m.snap.Volume != 0.9 {
		t.Errorf("Volume = %v, want 0.9", m.snap.Volume)
	}
	m = send(t, m, key("+"), key("+"), key("+"))
	if m.snap.Volume != 1 {
		t.Errorf("Volume = %v, want 1", m.snap.Volume)
	}

	m = send(t, m, media.Event{Kind: media.Ready, Generation: 1, Duration: time.Minute})
	m = send(t, m, key("."), key(","))
	if len(prim.seeks) != 2 || prim.seeks[0] != 5*time.Second {
		t.Errorf("seeks = %v", prim.seeks)
	}
}

func TestUpdate_RemoteCommands(t *testing.T) {
	m, _ := loaded(t, "a", "b")
	m = send(t, m, playback.CmdSelect{Index: 1}, playback.ChangeVolume{Level: 0.3})
	if m.snap.CurrentIndex != 1 || m.snap.Volume != 0.3 {
		t.Errorf("snapshot = %+v", m.snap)
	}
	m = send(t, m, playback.AppendTracks{Tracks: tracks("c")})
	if len(m.tracks) != 3 {
		t.Errorf("tracks = %d, want 3", len(m.tracks))
	}
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := loaded(t, "a")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestView(t *testing.T) {
	m, _ := loaded(t, "first song.mp3", "second.ogg")
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = send(t, m, media.Event{Kind: media.Ready, Generation: 1, Duration: 3*time.Minute + 5*time.Second})

	view := m.View()
	for _, want := range []string{"first song.mp3", catalog.DefaultArtist, "PAUSED", "0:00 / 3:05", "second.ogg"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q:\n%s", want, view)
		}
	}

	m = send(t, m, media.Event{Kind: media.Failed, Generation: 1, Err: media.ErrUnsupportedFormat})
	if view := m.View(); !strings.Contains(view, "unplayable") {
		t.Errorf("view does not show the error:\n%s", view)
	}
}

func TestView_Empty(t *testing.T) {
	m := newModel(playback.New(&fakePrimitive{}), nil)
	if view := m.View(); !strings.Contains(view, "No tracks") || !strings.Contains(view, "IDLE") {
		t.Errorf("view = %s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"日本語のタイトル", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	for _, tt := range []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"abcdef", 4, "abc…"},
		{"日本語", 5, "日本…"},
		{"日本", 5, "日本 "},
	} {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if renderBar(50, 0) != "" {
		t.Error("zero width bar should be empty")
	}
	bar := renderBar(50, 10)
	if strings.Count(bar, "━") != 5 || strings.Count(bar, "─") != 5 {
		t.Errorf("bar = %q", bar)
	}
	if strings.Count(renderBar(250, 10), "━") != 10 {
		t.Error("bar overflowed")
	}
}
