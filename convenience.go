package karplus

import "fmt"

// Common sample rates.
const (
	// RateCD is the CD quality sample rate.
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000
)

// NewSimple creates a synthesizer at 48 kHz with the given pitch and
// feedback. Smoothing is primed so the first block already sounds at pitch.
func NewSimple(frequency, feedback float64) (*Synth, error) {
	config := DefaultConfig()
	config.Frequency = frequency
	config.Feedback = feedback
	config.PrimeSmoothing = true
	return New(config)
}

// Render runs a fresh synthesizer for n samples, feeding input as live input
// and seeding the delay line with seed first. Either may be nil.
// The length of input beyond n is ignored.
func Render(config *Config, seed, input []float32, n int) ([]float32, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", ErrInvalidConfig, n)
	}

	s, err := New(config)
	if err != nil {
		return nil, err
	}
	s.Seed(seed)

	out := make([]float32, n)
	block := s.config.BlockSize
	for start := 0; start < n; start += block {
		end := min(start+block, n)
		var in []float32
		if start < len(input) {
			in = input[start:min(end, len(input))]
		}
		s.Process(in, out[start:end])
	}

	return out, nil
}

// Pluck renders seconds of a string plucked with a unit impulse at the
// given pitch and feedback.
func Pluck(sampleRate int, frequency, feedback, seconds float64) ([]float32, error) {
	config := DefaultConfig()
	config.SampleRate = sampleRate
	config.Frequency = frequency
	config.Feedback = feedback
	config.PrimeSmoothing = true

	n := int(seconds * float64(sampleRate))
	return Render(config, []float32{1}, nil, n)
}
