// Package surface implements control surfaces: the sources of parameter
// changes for a running synthesizer. Every surface clamps values to the
// nominal ranges and sends through a deduplicating controller, so the
// engine only hears about real changes.
package surface

import (
	"math"

	"github.com/tphakala/go-karplus"
)

// Controls is the parameter side of a synthesizer. *karplus.Controller
// implements it.
type Controls interface {
	SetFrequency(hz float64) bool
	SetFeedback(v float64) bool
	Frequency() float64
	Feedback() float64
}

// Stopper ends a session. *karplus.Synth implements it.
type Stopper interface {
	Stop()
}

// ClampFrequency limits hz to the playable range. NaN maps to the minimum.
func ClampFrequency(hz float64) float64 {
	return clamp(hz, karplus.MinFrequency, karplus.MaxFrequency)
}

// ClampFeedback limits v to the loop gain range. NaN maps to the minimum.
func ClampFeedback(v float64) float64 {
	return clamp(v, karplus.MinFeedback, karplus.MaxFeedback)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
