package media

import (
	"math"

	"github.com/gopxl/beep/v2/effects"
)

// applyLevel maps a linear level in [0,1] onto a base-2 beep volume effect.
func applyLevel(v *effects.Volume, level float64) {
	v.Base = 2
	if level <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(math.Min(level, 1))
}
