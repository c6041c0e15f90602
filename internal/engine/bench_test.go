package engine

import (
	"testing"

	"github.com/tphakala/go-karplus/internal/paramq"
	"github.com/tphakala/go-karplus/internal/ringbuf"
)

// BenchmarkProcess_Block256 benchmarks one 256-sample block at the default capacity.
func BenchmarkProcess_Block256(b *testing.B) {
	q := paramq.New()
	e, err := New[float32](Config{SampleRate: 48000, Capacity: ringbuf.DefaultCapacity, Frequency: 220, Feedback: 0.9}, q)
	if err != nil {
		b.Fatal(err)
	}

	in := make([]float32, 256)
	out := make([]float32, 256)
	in[0] = 1

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		e.Process(in, out)
	}
}

// BenchmarkProcess_WithMessages benchmarks a block that drains two parameter changes.
func BenchmarkProcess_WithMessages(b *testing.B) {
	q := paramq.New()
	e, err := New[float32](Config{SampleRate: 48000, Capacity: 1 << 16, Frequency: 220, Feedback: 0.9}, q)
	if err != nil {
		b.Fatal(err)
	}

	out := make([]float32, 256)
	hz := 200.0

	b.ResetTimer()
	for b.Loop() {
		hz++
		if hz > 600 {
			hz = 200
		}
		q.Send(paramq.Frequency(hz))
		q.Send(paramq.Feedback(0.9))
		e.Process(nil, out)
	}
}

// BenchmarkProcess_Float64 benchmarks the float64 instantiation.
func BenchmarkProcess_Float64(b *testing.B) {
	q := paramq.New()
	e, err := New[float64](Config{SampleRate: 48000, Capacity: 1 << 16, Frequency: 220, Feedback: 0.9}, q)
	if err != nil {
		b.Fatal(err)
	}

	out := make([]float64, 256)

	b.ResetTimer()
	for b.Loop() {
		e.Process(nil, out)
	}
}
