package karplus

import (
	"fmt"
	"sync/atomic"

	"github.com/tphakala/go-karplus/internal/engine"
	"github.com/tphakala/go-karplus/internal/paramq"
	"github.com/tphakala/go-karplus/internal/simdops"
)

const bytesPerSample = 4

// Controller sends parameter changes to a running Synth. It only sends when a
// value actually changes and is safe for concurrent use.
type Controller = paramq.Controller

// Synth is a mono Karplus-Strong synthesizer.
type Synth struct {
	config     Config
	engine     *engine.Engine[float32]
	controller *Controller
	stopped    atomic.Bool
}

// New creates a synthesizer with the specified configuration.
func New(config *Config) (*Synth, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := *config
	if cfg.Capacity == 0 {
		cfg.Capacity = defaultCapacity
	}

	q := paramq.New()
	e, err := engine.New[float32](engine.Config{
		SampleRate:     cfg.SampleRate,
		Capacity:       cfg.Capacity,
		Frequency:      cfg.Frequency,
		Feedback:       cfg.Feedback,
		PrimeSmoothing: cfg.PrimeSmoothing,
	}, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Capacity = e.Capacity()

	return &Synth{
		config:     cfg,
		engine:     e,
		controller: paramq.NewController(q, cfg.Frequency, cfg.Feedback),
	}, nil
}

// Process renders one block into out, mixing in as live input. A nil or
// short in is treated as silence. Once Stop has been called, Process fills
// out with silence and returns Stop.
func (s *Synth) Process(in, out []float32) Control {
	if s.stopped.Load() {
		clear(out)
		return Stop
	}

	s.engine.Process(in, out)
	return Continue
}

// Controller returns the synthesizer's parameter controller.
func (s *Synth) Controller() *Controller {
	return s.controller
}

// Seed writes samples into the delay line history as if they had just been
// output. Seeding a short burst before the session starts plucks the string.
func (s *Synth) Seed(samples []float32) {
	s.engine.Seed(samples)
}

// Stop requests the end of the session. It is safe to call from any goroutine.
func (s *Synth) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (s *Synth) Stopped() bool {
	return s.stopped.Load()
}

// Reset clears the delay line and the smoothing state. The controller's
// current values are sent again and apply from the next block. A stopped
// session stays stopped.
func (s *Synth) Reset() {
	s.engine.Reset()
	s.controller.Resend()
}

// Config returns a copy of the configuration with the capacity resolved.
func (s *Synth) Config() Config {
	return s.config
}

// Info returns the current synthesizer state.
func (s *Synth) Info() Info {
	return Info{
		SampleRate:   s.engine.SampleRate(),
		BlockSize:    s.config.BlockSize,
		Capacity:     s.engine.Capacity(),
		WritePointer: s.engine.WritePointer(),
		Frequency:    s.engine.FrequencyTarget(),
		Feedback:     s.engine.FeedbackTarget(),
		Delay:        s.engine.SmoothedDelay(),
		Gain:         s.engine.SmoothedFeedback(),
		MemoryUsage:  int64(s.engine.Capacity()) * bytesPerSample,
		SIMDType:     simdops.CPUInfo(),
	}
}
