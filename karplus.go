package karplus

import (
	"errors"
	"fmt"
	"math"
)

// Control tells the audio host whether to keep the session running.
type Control int

const (
	// Continue asks the host to call Process again with the next block.
	Continue Control = iota

	// Stop asks the host to end the session after this block.
	Stop
)

// String returns the control name.
func (c Control) String() string {
	switch c {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("Control(%d)", int(c))
	}
}

// Processor is the contract between an audio host and the synthesizer.
// The host calls Process once per fixed-size block from its processing
// context. in may be nil when the host has no input; out always has the
// block length and is fully overwritten.
type Processor interface {
	Process(in, out []float32) Control
}

// Config holds synthesizer configuration.
type Config struct {
	// SampleRate is the session sample rate in Hz. It is fixed for the
	// lifetime of a Synth.
	SampleRate int

	// BlockSize is the number of samples the host processes per callback.
	BlockSize int

	// Capacity is the delay line length in samples, rounded up to a power
	// of two. Set to 0 for the default of 2^24.
	Capacity int

	// Frequency is the initial pitch in Hz.
	Frequency float64

	// Feedback is the initial loop gain.
	Feedback float64

	// PrimeSmoothing starts the smoothed delay and feedback at their initial
	// targets instead of ramping up from zero. Without it the first
	// seconds of a session glide into pitch.
	PrimeSmoothing bool
}

// Common errors returned by the synthesizer.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid synthesizer configuration")
)

// DefaultConfig returns the startup configuration: 48 kHz, 256-sample
// blocks, 220 Hz and feedback 0.7.
func DefaultConfig() *Config {
	return &Config{
		SampleRate: defaultSampleRate,
		BlockSize:  defaultBlockSize,
		Capacity:   defaultCapacity,
		Frequency:  defaultFrequency,
		Feedback:   defaultFeedback,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate < minSampleRate || c.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate must be %d-%d Hz", ErrInvalidConfig, minSampleRate, maxSampleRate)
	}

	if c.BlockSize < minBlockSize || c.BlockSize > maxBlockSize {
		return fmt.Errorf("%w: block size must be %d-%d samples", ErrInvalidConfig, minBlockSize, maxBlockSize)
	}

	if c.Capacity != 0 && (c.Capacity < minCapacity || c.Capacity > maxCapacity) {
		return fmt.Errorf("%w: capacity must be 0 or %d-%d samples", ErrInvalidConfig, minCapacity, maxCapacity)
	}

	if math.IsNaN(c.Frequency) || math.IsInf(c.Frequency, 0) || c.Frequency <= 0 {
		return fmt.Errorf("%w: frequency must be positive and finite", ErrInvalidConfig)
	}

	if math.IsNaN(c.Feedback) || math.IsInf(c.Feedback, 0) {
		return fmt.Errorf("%w: feedback must be finite", ErrInvalidConfig)
	}

	return nil
}

// Info describes the state of a synthesizer.
type Info struct {
	// SampleRate is the session sample rate in Hz.
	SampleRate int

	// BlockSize is the configured block size in samples.
	BlockSize int

	// Capacity is the delay line length in samples.
	Capacity int

	// WritePointer is the delay line index of the next output sample.
	WritePointer int

	// Frequency and Feedback are the current targets.
	Frequency float64
	Feedback  float64

	// Delay and Gain are the current smoothed delay (samples) and feedback.
	Delay float64
	Gain  float64

	// MemoryUsage is the approximate delay line size in bytes.
	MemoryUsage int64

	// SIMDType describes the SIMD instruction set available to block helpers.
	SIMDType string
}
