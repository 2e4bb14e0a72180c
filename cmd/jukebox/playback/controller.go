package playback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/gigurra/jukebox/cmd/jukebox/progress"
	"github.com/gigurra/jukebox/cmd/jukebox/volume"
)

// Snapshot is the read-only view published after every transition.
type Snapshot struct {
	State        Status
	CurrentIndex int // -1 when the catalog is empty
	CurrentTrack *catalog.Track
	TrackCount   int
	Progress     progress.Snapshot
	Volume       float64
	LastError    error
}

// Controller drives a single media primitive through the playback state
// machine. It is not safe for concurrent use: all commands and primitive
// callbacks must be delivered from one goroutine (see Run).
type Controller struct {
	tracks    *catalog.Catalog
	media     media.Primitive
	progress  *progress.Reporter
	volume    *volume.Control
	opts      Options
	state     State
	observers []func(Snapshot)
	log       *slog.Logger
}

type Option func(*controllerConfig)

type controllerConfig struct {
	opts      Options
	volume    float64
	observers []func(Snapshot)
	log       *slog.Logger
}

func WithAutoAdvance(enabled bool) Option {
	return func(c *controllerConfig) { c.opts.AutoAdvance = enabled }
}

// WithVolume sets the initial volume level.
func WithVolume(level float64) Option {
	return func(c *controllerConfig) { c.volume = level }
}

// WithObserver registers fn to receive every published snapshot.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *controllerConfig) { c.observers = append(c.observers, fn) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *controllerConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a controller with an empty catalog, bound to prim.
func New(prim media.Primitive, opts ...Option) *Controller {
	cfg := controllerConfig{volume: 1, log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller{
		tracks:    catalog.New(),
		media:     prim,
		progress:  progress.New(),
		volume:    volume.New(prim, cfg.volume),
		opts:      cfg.opts,
		observers: cfg.observers,
		log:       cfg.log,
	}
}

// Subscribe registers an observer after construction.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.observers = append(c.observers, fn)
}

// Append adds tracks to the catalog. The first tracks added to an empty
// catalog get bound right away.
func (c *Controller) Append(tracks ...catalog.Track) Snapshot {
	added := c.tracks.Append(tracks...)
	for _, t := range added {
		c.log.Debug("track added", "id", t.ID, "title", t.Title, "source", t.Source)
	}
	return c.dispatch(CmdCatalogGrew{})
}

// SelectTrack binds the track at index. On an empty catalog this is a no-op.
func (c *Controller) SelectTrack(index int) (Snapshot, error) {
	if c.tracks.Len() == 0 {
		return c.Snapshot(), nil
	}
	if index < 0 || index >= c.tracks.Len() {
		return c.Snapshot(), fmt.Errorf("%w: %d (have %d tracks)", ErrIndexOutOfRange, index, c.tracks.Len())
	}
	return c.dispatch(CmdSelect{Index: index}), nil
}

func (c *Controller) Play() Snapshot {
	return c.dispatch(CmdPlay{})
}

func (c *Controller) Pause() Snapshot {
	return c.dispatch(CmdPause{})
}

// TogglePlay pauses when playing and plays otherwise.
func (c *Controller) TogglePlay() Snapshot {
	if c.state.Status == Playing {
		return c.Pause()
	}
	return c.Play()
}

func (c *Controller) Next() Snapshot {
	return c.dispatch(CmdNext{})
}

func (c *Controller) Previous() Snapshot {
	return c.dispatch(CmdPrevious{})
}

func (c *Controller) Seek(position time.Duration) Snapshot {
	return c.dispatch(CmdSeek{Position: position})
}

// SeekBy moves the position relative to the last reported clock value.
func (c *Controller) SeekBy(delta time.Duration) Snapshot {
	current := time.Duration(c.progress.Snapshot().CurrentTimeSeconds * float64(time.Second))
	return c.Seek(current + delta)
}

// SetVolume is legal in every state and never transitions.
func (c *Controller) SetVolume(level float64) Snapshot {
	c.volume.SetVolume(level)
	return c.publish()
}

func (c *Controller) StepVolume(delta float64) Snapshot {
	c.volume.Step(delta)
	return c.publish()
}

// HandleEvent feeds a primitive callback into the state machine. Callbacks
// from a superseded bind are dropped.
func (c *Controller) HandleEvent(ev media.Event) Snapshot {
	if ev.Generation != c.state.Generation {
		c.log.Debug("dropping stale media callback",
			"kind", ev.Kind, "generation", ev.Generation, "current", c.state.Generation)
		return c.Snapshot()
	}
	return c.dispatch(Callback{Event: ev})
}

// RequestedAutoplay reports the current autoplay intention.
func (c *Controller) RequestedAutoplay() bool {
	return c.state.RequestedAutoplay
}

// Tracks returns a copy of the catalog.
func (c *Controller) Tracks() []catalog.Track {
	return c.tracks.Tracks()
}

func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:        c.state.Status,
		CurrentIndex: -1,
		TrackCount:   c.tracks.Len(),
		Progress:     c.progress.Snapshot(),
		Volume:       c.volume.Level(),
		LastError:    c.state.LastError,
	}
	if i, ok := c.tracks.IndexOf(c.state.Current); ok {
		track, _ := c.tracks.Get(i)
		snap.CurrentIndex = i
		snap.CurrentTrack = &track
	}
	return snap
}

func (c *Controller) dispatch(ev Event) Snapshot {
	prev := c.state
	next, effects := Step(prev, c.tracks, c.opts, ev)
	c.state = next

	if prev.Status != next.Status {
		c.log.Debug("playback transition",
			"from", prev.Status, "to", next.Status, "event", fmt.Sprintf("%T", ev), "generation", next.Generation)
	}
	if next.LastError != nil && next.LastError != prev.LastError {
		c.log.Warn("playback error", "error", next.LastError)
	}

	c.apply(effects)
	return c.publish()
}

func (c *Controller) apply(effects []Effect) {
	for _, fx := range effects {
		switch f := fx.(type) {
		case FxStop:
			c.media.Stop()
		case FxBind:
			c.media.Bind(f.Generation, f.Track.Source)
		case FxPlay:
			c.media.Play(f.Generation)
		case FxPause:
			c.media.Pause()
		case FxSeek:
			c.media.Seek(f.Position)
		case FxResetProgress:
			c.progress.OnTrackBound()
		case FxProgress:
			c.progress.OnTick(f.Position.Seconds(), f.Duration.Seconds())
		}
	}
}

func (c *Controller) publish() Snapshot {
	snap := c.Snapshot()
	for _, fn := range c.observers {
		fn(snap)
	}
	return snap
}

// AppendTracks and ChangeVolume are messages for Dispatch that do not go
// through the transition function.
type (
	AppendTracks struct{ Tracks []catalog.Track }
	ChangeVolume struct{ Level float64 }
)

// Dispatch routes a loop message to the matching operation. It reports false
// for messages it does not understand.
func (c *Controller) Dispatch(msg any) (Snapshot, bool) {
	switch m := msg.(type) {
	case media.Event:
		return c.HandleEvent(m), true
	case CmdSelect:
		snap, err := c.SelectTrack(m.Index)
		if err != nil {
			c.log.Warn("select ignored", "error", err)
		}
		return snap, true
	case Callback:
		return c.HandleEvent(m.Event), true
	case Event:
		return c.dispatch(m), true
	case AppendTracks:
		return c.Append(m.Tracks...), true
	case ChangeVolume:
		return c.SetVolume(m.Level), true
	}
	return c.Snapshot(), false
}

// Run processes messages from inbox on the calling goroutine until ctx is
// done or inbox is closed. It is the single mutator for headless use.
func (c *Controller) Run(ctx context.Context, inbox <-chan any) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			if _, handled := c.Dispatch(msg); !handled {
				c.log.Debug("ignoring message", "type", fmt.Sprintf("%T", msg))
			}
		}
	}
}
