package paramq

import (
	"math"
	"sync"
)

// Controller is the control-context side of the parameter channel. It keeps the
// last value sent for each parameter and only sends when a value actually
// changes, so control surfaces can call it on every UI update.
//
// A Controller is safe for concurrent use by multiple goroutines.
type Controller struct {
	q *Queue

	mu        sync.Mutex
	frequency float64
	feedback  float64
}

// NewController creates a controller that sends on q. frequency and feedback
// are the values the engine already starts with; setting them again is a no-op.
func NewController(q *Queue, frequency, feedback float64) *Controller {
	return &Controller{q: q, frequency: frequency, feedback: feedback}
}

// SetFrequency sends a FrequencyChanged message if hz differs from the last
// value sent. It reports whether a message was sent.
func (c *Controller) SetFrequency(hz float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if same(hz, c.frequency) {
		return false
	}
	c.frequency = hz
	c.q.Send(Frequency(hz))
	return true
}

// SetFeedback sends a FeedbackChanged message if v differs from the last value
// sent. It reports whether a message was sent.
func (c *Controller) SetFeedback(v float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if same(v, c.feedback) {
		return false
	}
	c.feedback = v
	c.q.Send(Feedback(v))
	return true
}

// Resend sends both current values unconditionally, for a consumer that has
// lost its state.
func (c *Controller) Resend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.q.Send(Frequency(c.frequency))
	c.q.Send(Feedback(c.feedback))
}

// Frequency returns the last frequency sent (or the initial value).
func (c *Controller) Frequency() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frequency
}

// Feedback returns the last feedback sent (or the initial value).
func (c *Controller) Feedback() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback
}

// same treats two NaNs as equal so a stuck NaN control is not re-sent forever.
func same(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
