// Package simdops provides generic SIMD block operations for float32 and float64
// sample types, so the synthesis and analysis code can be written once for both.
//
// Nothing here runs inside the per-sample recurrence; these operations work on
// whole blocks after the engine has produced them (output gain, level metering,
// per-period sums).
package simdops

import (
	"math"

	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported sample types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
// Function pointers allow type-safe generic code while delegating
// to optimized type-specific implementations.
type Ops[F Float] struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)
}

// Pre-instantiated operations for each float type.
var (
	ops32 = Ops[float32]{
		DotProductUnsafe: f32.DotProductUnsafe,
		Sum:              f32.Sum,
		Scale:            f32.Scale,
	}
	ops64 = Ops[float64]{
		DotProductUnsafe: f64.DotProductUnsafe,
		Sum:              f64.Sum,
		Scale:            f64.Scale,
	}
)

// For returns the Ops instance for type F.
// The type switch happens at instantiation time, not in hot paths.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// Gain applies a linear gain to block in place. Unity gain is a no-op.
func Gain[F Float](block []F, gain F) {
	if gain == 1 || len(block) == 0 {
		return
	}
	For[F]().Scale(block, block, gain)
}

// Energy returns the sum of squares of block.
func Energy[F Float](block []F) float64 {
	if len(block) == 0 {
		return 0
	}
	return float64(For[F]().DotProductUnsafe(block, block))
}

// RMS returns the root-mean-square level of block.
func RMS[F Float](block []F) float64 {
	if len(block) == 0 {
		return 0
	}
	return math.Sqrt(Energy(block) / float64(len(block)))
}

// Sum returns the sum of block in float64.
func Sum[F Float](block []F) float64 {
	if len(block) == 0 {
		return 0
	}
	return float64(For[F]().Sum(block))
}

// CPUInfo describes the SIMD features selected at startup.
func CPUInfo() string {
	return cpu.Info()
}
