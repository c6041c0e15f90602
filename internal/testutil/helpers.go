// Package testutil provides reusable test helper functions for the synthesis tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-karplus/internal/simdops"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-6
	PeriodTolerance  = 1.0  // samples
	DecayTolerance   = 0.01 // absolute, on a per-period amplitude ratio
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F simdops.Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(float64(v)) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(float64(v), 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertConvergesMonotonically verifies that s approaches target without
// overshoot: every step strictly reduces the distance to target and never
// crosses it.
func AssertConvergesMonotonically(t *testing.T, s []float64, target float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		prev := s[i-1] - target
		cur := s[i] - target
		if prev == 0 {
			continue
		}
		if math.Abs(cur) >= math.Abs(prev) {
			return assert.Fail(t, "not converging",
				"|s[%d]-target|=%g >= |s[%d]-target|=%g", i, math.Abs(cur), i-1, math.Abs(prev))
		}
		if cur*prev < 0 {
			return assert.Fail(t, "overshoot",
				"s[%d]=%g crossed target %g", i, s[i], target)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// Impulse returns a block of n samples with a unit impulse at index 0.
func Impulse[F simdops.Float](n int) []F {
	s := make([]F, n)
	if n > 0 {
		s[0] = 1
	}
	return s
}

// ToFloat64 converts a sample slice to float64.
func ToFloat64[F simdops.Float](s []F) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
