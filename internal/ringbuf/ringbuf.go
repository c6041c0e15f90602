// Package ringbuf implements the fixed-capacity circular sample store used by
// the delay-line engine.
//
// A RingBuffer has no read pointer and no fill level: it behaves as an
// infinite history truncated to the most recent Capacity samples. Writes
// silently overwrite the oldest sample and reads can happen at any
// fractional position.
//
// A RingBuffer is not safe for concurrent use. It is owned by the processing
// context and never locked.
package ringbuf

import (
	"math"

	"github.com/tphakala/go-karplus/internal/simdops"
)

// RingBuffer is a power-of-two sized circular buffer of samples.
type RingBuffer[F simdops.Float] struct {
	data []F
	mask int // capacity - 1 (for bitwise AND instead of modulo)
}

// New creates a zero-filled ring buffer.
// Capacity is rounded up to the nearest power of 2.
func New[F simdops.Float](capacity int) *RingBuffer[F] {
	cap2 := minCapacity
	for cap2 < capacity {
		cap2 <<= 1
	}

	return &RingBuffer[F]{
		data: make([]F, cap2),
		mask: cap2 - 1,
	}
}

// Capacity returns the number of samples the buffer retains.
func (b *RingBuffer[F]) Capacity() int {
	return len(b.data)
}

// Write stores value at index mod Capacity.
func (b *RingBuffer[F]) Write(index int, value F) {
	b.data[index&b.mask] = value
}

// At returns the sample stored at index mod Capacity.
func (b *RingBuffer[F]) At(index int) F {
	return b.data[index&b.mask]
}

// Evaluate reads the buffer at a fractional position using linear
// interpolation between the two nearest stored samples:
//
//	(1-frac)*buf[i mod N] + frac*buf[(i+1) mod N]
//
// where i = floor(position). Negative positions wrap like positive ones.
func (b *RingBuffer[F]) Evaluate(position float64) float64 {
	fi := math.Floor(position)
	frac := position - fi
	i := int(fi)

	x0 := float64(b.data[i&b.mask])
	if frac == 0 {
		return x0
	}
	x1 := float64(b.data[(i+1)&b.mask])

	return (1-frac)*x0 + frac*x1
}

// Normalize brings a read position into [0, Capacity) by adding the capacity
// until it is non-negative. Positions are never reduced with a modulo of a
// negative number. Callers keep offsets within a few capacities; an infinite
// position maps to 0.
func (b *RingBuffer[F]) Normalize(position float64) float64 {
	if math.IsInf(position, -1) {
		return 0
	}
	n := float64(len(b.data))
	for position < 0 {
		position += n
	}
	return position
}

// Reset zero-fills the buffer.
func (b *RingBuffer[F]) Reset() {
	clear(b.data)
}
