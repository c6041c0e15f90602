package karplus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-karplus/internal/testutil"
)

func TestNewSimple(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full delay line")
	}

	s, err := NewSimple(240, 0.9)
	require.NoError(t, err)

	info := s.Info()
	assert.Equal(t, RateDAT, info.SampleRate)
	assert.InDelta(t, 200.0, info.Delay, 1e-12, "smoothing is primed")
	assert.InDelta(t, 0.9, info.Gain, 1e-12)

	_, err = NewSimple(0, 0.9)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewSimple(0, 0.9) error = %v, want ErrInvalidConfig", err)
	}
}

func TestRender(t *testing.T) {
	c := testConfig()
	c.Frequency = 240
	c.Feedback = 0.9
	c.PrimeSmoothing = true
	c.BlockSize = 100

	out, err := Render(c, []float32{1}, nil, 1000)
	require.NoError(t, err)
	require.Len(t, out, 1000)
	testutil.AssertNoNaNOrInf(t, out)

	assert.InDelta(t, 0.45, out[198], 1e-6)
	assert.InDelta(t, 0.45, out[199], 1e-6)
}

func TestRender_InputShorterThanOutput(t *testing.T) {
	c := testConfig()
	c.BlockSize = 64
	c.PrimeSmoothing = true

	// 220 Hz primes a delay of about 218 samples, so nothing echoes back
	// within the first block.
	out, err := Render(c, nil, []float32{0.5, 0.25}, 300)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), out[0])
	assert.Equal(t, float32(0.25), out[1])
	for i := 2; i < 64; i++ {
		assert.Zero(t, out[i], "out[%d]", i)
	}
}

func TestRender_UnprimedInputFeedsBackImmediately(t *testing.T) {
	c := testConfig()
	c.BlockSize = 64

	// Without priming the smoothed delay starts near zero and the loop
	// immediately hears the samples it just wrote.
	out, err := Render(c, nil, []float32{0.5, 0.25}, 300)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-3)
	assert.InDelta(t, 0.25, out[1], 1e-3)
	assert.NotZero(t, out[1]-0.25)
	testutil.AssertNoNaNOrInf(t, out)
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(testConfig(), nil, nil, -1)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Render(nil, nil, nil, 10)
	require.ErrorIs(t, err, ErrInvalidConfig)

	out, err := Render(testConfig(), nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPluck(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full delay line")
	}

	out, err := Pluck(RateDAT, 240, 0.9, 0.5)
	require.NoError(t, err)
	assert.Len(t, out, 24000)
	assert.InDelta(t, 0.45, out[198], 1e-6)

	_, err = Pluck(RateDAT, 240, 0.9, -1)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
