// Package excite provides excitation signals for the string: synthetic
// bursts used to seed the delay line and audio files used as live input.
package excite

import (
	"math"
	"math/rand/v2"
)

// Impulse returns n samples with a unit impulse at index 0.
func Impulse(n int) []float32 {
	if n <= 0 {
		return nil
	}
	s := make([]float32, n)
	s[0] = 1
	return s
}

// Silence returns n zero samples.
func Silence(n int) []float32 {
	if n <= 0 {
		return nil
	}
	return make([]float32, n)
}

// NoiseBurst returns n samples of uniform white noise in [-amplitude,
// amplitude]. The same seed always gives the same burst.
func NoiseBurst(n int, amplitude float64, seed uint64) []float32 {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^pcgStream))
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(amplitude * (2*rng.Float64() - 1))
	}
	return s
}

// Pluck returns a noise burst one period long for the given pitch, the
// classic Karplus-Strong excitation.
func Pluck(sampleRate int, frequency float64, seed uint64) []float32 {
	if frequency <= 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return nil
	}
	return NoiseBurst(int(math.Round(float64(sampleRate)/frequency)), pluckAmplitude, seed)
}

// Stream plays a fixed buffer as live input, then silence.
// It implements the host Source contract.
type Stream struct {
	samples []float32
	pos     int
}

// NewStream creates a stream over samples.
func NewStream(samples []float32) *Stream {
	return &Stream{samples: samples}
}

// ReadSamples copies the next len(dst) samples into dst, zero-filling once
// the buffer is exhausted. It never fails.
func (s *Stream) ReadSamples(dst []float32) (int, error) {
	n := copy(dst, s.samples[s.pos:])
	s.pos += n
	clear(dst[n:])
	return len(dst), nil
}

// Remaining returns the number of buffered samples not yet read.
func (s *Stream) Remaining() int {
	return len(s.samples) - s.pos
}
