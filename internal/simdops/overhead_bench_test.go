package simdops

import (
	"testing"

	"github.com/tphakala/simd/f32"
)

const benchBlock = 256

func benchSamples() []float32 {
	a := make([]float32, benchBlock)
	for i := range a {
		a[i] = float32(i) * 0.001
	}
	return a
}

// BenchmarkDirectF32Scale measures direct SIMD call overhead.
func BenchmarkDirectF32Scale(b *testing.B) {
	a := benchSamples()

	b.ReportAllocs()
	for b.Loop() {
		f32.Scale(a, a, 0.999)
	}
}

// BenchmarkGain measures the generic wrapper used by the hosts.
func BenchmarkGain(b *testing.B) {
	a := benchSamples()

	b.ReportAllocs()
	for b.Loop() {
		Gain(a, float32(0.999))
	}
}

// BenchmarkRMS measures block metering.
func BenchmarkRMS(b *testing.B) {
	a := benchSamples()

	b.ReportAllocs()
	for b.Loop() {
		_ = RMS(a)
	}
}
