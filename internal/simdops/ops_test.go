package simdops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGain(t *testing.T) {
	block := []float32{1, -2, 0.5, 0}
	Gain(block, 0.5)
	assert.Equal(t, []float32{0.5, -1, 0.25, 0}, block)

	unity := []float64{0.1, 0.2}
	Gain(unity, 1)
	assert.Equal(t, []float64{0.1, 0.2}, unity)

	// Empty blocks are fine
	Gain([]float32{}, 2)
}

func TestEnergyAndRMS(t *testing.T) {
	block := []float64{3, 4}
	assert.InDelta(t, 25.0, Energy(block), 1e-12)
	assert.InDelta(t, math.Sqrt(12.5), RMS(block), 1e-12)

	assert.Zero(t, RMS([]float32{}))
	assert.Zero(t, Energy([]float64(nil)))
}

func TestRMS_Sine(t *testing.T) {
	// Full-scale sine over whole periods has RMS 1/sqrt(2)
	block := make([]float32, 4800)
	for i := range block {
		block[i] = float32(math.Sin(2 * math.Pi * float64(i) / 48))
	}
	assert.InDelta(t, 1/math.Sqrt2, RMS(block), 1e-4)
}

func TestSum(t *testing.T) {
	assert.InDelta(t, 6.0, Sum([]float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, -1.5, Sum([]float64{-1, -0.5}), 1e-12)
	assert.Zero(t, Sum([]float64{}))
}

func TestFor_ReturnsSharedOps(t *testing.T) {
	assert.Same(t, For[float32](), For[float32]())
	assert.Same(t, For[float64](), For[float64]())
}

func TestCPUInfo(t *testing.T) {
	assert.NotPanics(t, func() { _ = CPUInfo() })
}
