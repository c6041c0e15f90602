// Package engine implements the delay-line feedback synthesis engine, a
// Karplus-Strong style plucked-string model.
//
// Each output sample mixes the live input with a fed-back, fractionally
// delayed tap of the engine's own output history:
//
//	y[n] = x[n] + g[n] * (0.5*y(n-D[n]) + 0.5*y(n-D[n]+1))
//
// where D is the smoothed delay length (sampleRate/frequency) and g the
// smoothed feedback gain. Both are one-pole smoothed toward targets that arrive
// through a paramq.Queue and are applied once per block.
//
// An Engine is owned by the processing context. Process never allocates,
// locks or blocks.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-karplus/internal/paramq"
	"github.com/tphakala/go-karplus/internal/ringbuf"
	"github.com/tphakala/go-karplus/internal/simdops"
	"github.com/tphakala/go-karplus/internal/smoothing"
)

// ErrInvalidParameters indicates the engine cannot be built from its config.
var ErrInvalidParameters = errors.New("invalid engine parameters")

// Config holds the engine's construction parameters.
type Config struct {
	// SampleRate is the session sample rate in Hz, fixed for the engine's lifetime.
	SampleRate int

	// Capacity is the delay line length in samples. 0 means ringbuf.DefaultCapacity.
	Capacity int

	// Frequency and Feedback are the initial targets.
	Frequency float64
	Feedback  float64

	// PrimeSmoothing starts the smoothed delay and feedback at their targets
	// instead of ramping up from zero.
	PrimeSmoothing bool
}

// Engine is the delay-line synthesis engine for sample type F.
type Engine[F simdops.Float] struct {
	ring  *ringbuf.RingBuffer[F]
	queue *paramq.Queue

	sampleRate float64
	maxDelay   float64
	writePos   int

	// Targets, updated only by draining the queue
	frequencyTarget float64
	feedbackTarget  float64

	// Smoothed state, updated once per sample
	delay    smoothing.OnePole
	feedback smoothing.OnePole

	initial Config
}

// New creates an engine that drains parameter messages from q.
func New[F simdops.Float](cfg Config, q *paramq.Queue) (*Engine[F], error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameters, cfg.SampleRate)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: nil parameter queue", ErrInvalidParameters)
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = ringbuf.DefaultCapacity
	}
	if cfg.Capacity <= delayHeadroom {
		return nil, fmt.Errorf("%w: capacity %d too small", ErrInvalidParameters, cfg.Capacity)
	}

	ring := ringbuf.New[F](cfg.Capacity)
	e := &Engine[F]{
		ring:       ring,
		queue:      q,
		sampleRate: float64(cfg.SampleRate),
		maxDelay:   float64(ring.Capacity() - delayHeadroom),
		initial:    cfg,
	}
	e.resetState()

	return e, nil
}

func (e *Engine[F]) resetState() {
	e.writePos = 0
	e.frequencyTarget = e.initial.Frequency
	e.feedbackTarget = e.initial.Feedback

	var d0, g0 float64
	if e.initial.PrimeSmoothing {
		if d, ok := e.targetDelay(); ok {
			d0 = d
		}
		if isFinite(e.feedbackTarget) {
			g0 = e.feedbackTarget
		}
	}
	e.delay = smoothing.New(smoothing.DelayCoefficient, d0)
	e.feedback = smoothing.New(smoothing.FeedbackCoefficient, g0)
}

// Process renders one block. in and out are processed sample by sample; a
// missing or short input is treated as silence. Parameter messages pending at
// the start of the call apply from the block's first sample.
func (e *Engine[F]) Process(in, out []F) {
	e.Drain()

	target, targetOK := e.targetDelay()
	feedbackTarget := e.feedbackTarget

	for i := range out {
		var x float64
		if i < len(in) {
			x = float64(in[i])
		}

		if targetOK {
			e.delay.Tick(target)
		}
		g := e.feedback.Tick(feedbackTarget)

		rp := e.ring.Normalize(float64(e.writePos) - e.delay.Value())

		// Two adjacent fractional reads, averaged.
		tap := tapWeight*e.ring.Evaluate(rp) + tapWeight*e.ring.Evaluate(rp+tapSpacing)

		y := F(x + g*tap)
		e.ring.Write(e.writePos, y)
		out[i] = y

		e.writePos++
		if e.writePos >= e.ring.Capacity() {
			e.writePos = 0
		}
	}
}

// Drain applies every pending parameter message in channel order and returns
// how many were consumed. Process calls it at the start of each block.
func (e *Engine[F]) Drain() int {
	n := 0
	for {
		m, ok := e.queue.TryReceive()
		if !ok {
			return n
		}
		switch m.Kind {
		case paramq.FeedbackChanged:
			e.feedbackTarget = m.Value
		case paramq.FrequencyChanged:
			e.frequencyTarget = m.Value
		}
		n++
	}
}

// targetDelay converts the frequency target to a delay length in samples.
// The frequency is floored at MinFrequency and the delay capped below the
// capacity. It reports false for a non-finite target, which holds the
// smoothed delay where it is.
func (e *Engine[F]) targetDelay() (float64, bool) {
	f := e.frequencyTarget
	if !isFinite(f) {
		return 0, false
	}
	if f < MinFrequency {
		f = MinFrequency
	}

	d := e.sampleRate / f
	if !isFinite(d) {
		return 0, false
	}
	if d > e.maxDelay {
		d = e.maxDelay
	}
	return d, true
}

// Seed writes samples into the delay line history at the write pointer and
// advances it, as if they had been output before the session started.
func (e *Engine[F]) Seed(samples []F) {
	for _, s := range samples {
		e.ring.Write(e.writePos, s)
		e.writePos++
		if e.writePos >= e.ring.Capacity() {
			e.writePos = 0
		}
	}
}

// Reset zero-fills the delay line and restores the construction-time state.
func (e *Engine[F]) Reset() {
	e.ring.Reset()
	e.resetState()
}

// SampleRate returns the session sample rate in Hz.
func (e *Engine[F]) SampleRate() int {
	return int(e.sampleRate)
}

// Capacity returns the delay line length in samples.
func (e *Engine[F]) Capacity() int {
	return e.ring.Capacity()
}

// WritePointer returns the index the next output sample will be written to.
func (e *Engine[F]) WritePointer() int {
	return e.writePos
}

// FrequencyTarget returns the frequency target as last drained.
func (e *Engine[F]) FrequencyTarget() float64 {
	return e.frequencyTarget
}

// FeedbackTarget returns the feedback target as last drained.
func (e *Engine[F]) FeedbackTarget() float64 {
	return e.feedbackTarget
}

// SmoothedDelay returns the current smoothed delay length in samples.
func (e *Engine[F]) SmoothedDelay() float64 {
	return e.delay.Value()
}

// SmoothedFeedback returns the current smoothed feedback gain.
func (e *Engine[F]) SmoothedFeedback() float64 {
	return e.feedback.Value()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
