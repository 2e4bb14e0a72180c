// Package progress derives the displayed position of the bound track from the
// media primitive's clock.
package progress

import (
	"fmt"
	"math"
)

// Snapshot is a derived view of the playback clock. It is recomputed on every
// tick and never carried across track switches.
type Snapshot struct {
	CurrentTimeSeconds float64 `json:"currentTimeSeconds"`
	DurationSeconds    float64 `json:"durationSeconds"`
	Percent            float64 `json:"percent"`
}

// Reporter keeps the latest snapshot. It does not extrapolate between ticks.
type Reporter struct {
	snap Snapshot
}

func New() *Reporter {
	return &Reporter{}
}

// OnTick recomputes the snapshot from the primitive's current time and total
// duration. A non-positive duration reports 0 percent.
func (r *Reporter) OnTick(currentTime, totalDuration float64) Snapshot {
	currentTime = finiteOrZero(currentTime)
	totalDuration = finiteOrZero(totalDuration)
	if currentTime < 0 {
		currentTime = 0
	}
	if totalDuration < 0 {
		totalDuration = 0
	}

	percent := 0.0
	if totalDuration > 0 {
		percent = math.Min(currentTime/totalDuration*100, 100)
	}

	r.snap = Snapshot{
		CurrentTimeSeconds: currentTime,
		DurationSeconds:    totalDuration,
		Percent:            percent,
	}
	return r.snap
}

// OnTrackBound resets the snapshot before the new track's metadata arrives.
func (r *Reporter) OnTrackBound() {
	r.snap = Snapshot{}
}

// Snapshot returns the latest derived view.
func (r *Reporter) Snapshot() Snapshot {
	return r.snap
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds float64) string {
	seconds = finiteOrZero(seconds)
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
