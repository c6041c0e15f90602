// Package smoothing provides the one-pole parameter smoothers used by the
// delay-line engine to avoid audible steps when a control value changes.
package smoothing

import "math"

// Smoothing coefficients for the engine's two time-varying parameters.
const (
	// DelayCoefficient smooths the delay length (~10,000-sample time constant).
	DelayCoefficient = 0.0001

	// FeedbackCoefficient smooths the feedback gain (~1,000-sample time constant).
	FeedbackCoefficient = 0.001
)

// OnePole is an exponential moving average:
//
//	y[n] = a*target + (1-a)*y[n-1]
//
// The zero value is a smoother with coefficient 0 that never moves; use New.
type OnePole struct {
	a     float64
	b     float64 // 1 - a
	value float64
}

// New creates a smoother with coefficient a in (0, 1] starting at initial.
func New(a, initial float64) OnePole {
	return OnePole{a: a, b: 1 - a, value: initial}
}

// Tick advances the smoother one sample toward target and returns the new value.
// A non-finite target holds the current value.
func (p *OnePole) Tick(target float64) float64 {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return p.value
	}
	p.value = p.a*target + p.b*p.value
	return p.value
}

// Value returns the current smoothed value.
func (p *OnePole) Value() float64 {
	return p.value
}

// Reset jumps the smoother to v.
func (p *OnePole) Reset(v float64) {
	p.value = v
}

// Coefficient returns a.
func (p *OnePole) Coefficient() float64 {
	return p.a
}

// TimeConstant returns the smoother's time constant in samples (1/a).
func (p *OnePole) TimeConstant() float64 {
	if p.a == 0 {
		return math.Inf(1)
	}
	return 1 / p.a
}
