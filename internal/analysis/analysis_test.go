package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, rate float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return x
}

func TestAutocorrelation(t *testing.T) {
	x := sine(480, 48000, 4000) // period 100

	acf, err := Autocorrelation(x, 250)
	require.NoError(t, err)
	require.Len(t, acf, 251)

	assert.InDelta(t, 1.0, acf[0], 1e-12)
	assert.Greater(t, acf[100], 0.9)
	assert.Less(t, acf[50], -0.9)
	assert.Greater(t, acf[100], acf[200], "biased estimate shrinks with lag")
}

func TestAutocorrelation_Errors(t *testing.T) {
	_, err := Autocorrelation(make([]float64, 10), 10)
	require.ErrorIs(t, err, ErrTooShort)

	_, err = Autocorrelation(make([]float64, 100), 10)
	require.ErrorIs(t, err, ErrSilent)
}

func TestEstimatePeriod(t *testing.T) {
	tests := []struct {
		name   string
		freq   float64
		period float64
	}{
		{"integer_period", 240, 200},
		{"fractional_period", 220, 48000.0 / 220},
		{"high_pitch", 600, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := sine(tt.freq, 48000, 8192)
			got, err := EstimatePeriod(x, 40, 400)
			require.NoError(t, err)
			assert.InDelta(t, tt.period, got, 0.5)
		})
	}
}

func TestEstimatePeriod_InvalidRange(t *testing.T) {
	x := sine(240, 48000, 1000)

	_, err := EstimatePeriod(x, 0, 100)
	require.Error(t, err)

	_, err = EstimatePeriod(x, 100, 100)
	require.Error(t, err)

	_, err = EstimatePeriod(x, 10, 2000)
	require.ErrorIs(t, err, ErrTooShort)
}

func TestDecayRatio(t *testing.T) {
	// Pulse train: one unit pulse every 100 samples, scaled by 0.8 each time
	x := make([]float64, 1000)
	amp := 1.0
	for i := 50; i < len(x); i += 100 {
		x[i] = amp
		amp *= 0.8
	}

	got, err := DecayRatio(x, 100, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got, 1e-12)
}

func TestDecayRatio_Errors(t *testing.T) {
	_, err := DecayRatio(make([]float64, 1000), 0.5, 0)
	require.Error(t, err)

	_, err = DecayRatio(make([]float64, 150), 100, 0)
	require.ErrorIs(t, err, ErrTooShort)

	_, err = DecayRatio(make([]float64, 1000), 100, 0)
	require.ErrorIs(t, err, ErrTooShort, "silent windows do not count")
}

func TestPeakAndRMS(t *testing.T) {
	x := []float64{0.25, -0.75, 0.5}
	assert.Equal(t, 0.75, Peak(x))
	assert.Zero(t, Peak(nil))

	s := sine(1000, 48000, 48000)
	assert.InDelta(t, 1/math.Sqrt2, RMS(s), 1e-3)
	assert.InDelta(t, 1/math.Sqrt2, RMS(toFloat32(s)), 1e-3)
}

func TestDecibels(t *testing.T) {
	assert.InDelta(t, 0.0, Decibels(1), 1e-12)
	assert.InDelta(t, -6.0206, Decibels(0.5), 1e-4)
	assert.True(t, math.IsInf(Decibels(0), -1))
}

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}
