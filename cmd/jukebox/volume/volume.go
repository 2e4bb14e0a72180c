// Package volume controls the output gain of the media primitive.
package volume

import (
	"math"

	"github.com/samber/lo"
)

// Gain is the part of the media primitive the volume control adjusts.
type Gain interface {
	SetVolume(level float64)
}

// Control stores the volume level and applies it to the primitive. Setting the
// volume is legal in every playback state.
type Control struct {
	gain  Gain
	level float64
}

// New creates a control and applies the (clamped) initial level.
func New(gain Gain, initial float64) *Control {
	c := &Control{gain: gain}
	c.SetVolume(initial)
	return c
}

// SetVolume clamps v to [0,1], applies it and returns the stored level.
func (c *Control) SetVolume(v float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	c.level = lo.Clamp(v, 0, 1)
	if c.gain != nil {
		c.gain.SetVolume(c.level)
	}
	return c.level
}

// Step nudges the level by delta.
func (c *Control) Step(delta float64) float64 {
	// keep levels on a 0.01 grid
	return c.SetVolume(math.Round((c.level+delta)*100) / 100)
}

// Level returns the stored level.
func (c *Control) Level() float64 {
	return c.level
}
