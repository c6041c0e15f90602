package karplus

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-karplus/internal/analysis"
	"github.com/tphakala/go-karplus/internal/testutil"
)

func testConfig() *Config {
	c := DefaultConfig()
	c.Capacity = 1 << 16
	return c
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 48000, c.SampleRate)
	assert.Equal(t, 256, c.BlockSize)
	assert.Equal(t, 1<<24, c.Capacity)
	assert.Equal(t, 220.0, c.Frequency)
	assert.Equal(t, 0.7, c.Feedback)
	assert.False(t, c.PrimeSmoothing)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero_rate", func(c *Config) { c.SampleRate = 0 }},
		{"huge_rate", func(c *Config) { c.SampleRate = 10_000_000 }},
		{"zero_block", func(c *Config) { c.BlockSize = 0 }},
		{"huge_block", func(c *Config) { c.BlockSize = 1 << 20 }},
		{"tiny_capacity", func(c *Config) { c.Capacity = 2 }},
		{"huge_capacity", func(c *Config) { c.Capacity = 1 << 30 }},
		{"zero_frequency", func(c *Config) { c.Frequency = 0 }},
		{"negative_frequency", func(c *Config) { c.Frequency = -220 }},
		{"nan_frequency", func(c *Config) { c.Frequency = math.NaN() }},
		{"inf_feedback", func(c *Config) { c.Feedback = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	t.Run("zero_capacity_means_default", func(t *testing.T) {
		c := DefaultConfig()
		c.Capacity = 0
		assert.NoError(t, c.Validate())
	})

	t.Run("feedback_is_not_range_checked", func(t *testing.T) {
		c := DefaultConfig()
		c.Feedback = 1.5
		assert.NoError(t, c.Validate())
	})
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	c := testConfig()
	c.Capacity = 1000
	s, err := New(c)
	require.NoError(t, err)
	assert.Equal(t, 1024, s.Config().Capacity, "capacity rounds up to a power of two")
	assert.Equal(t, 1000, c.Capacity, "caller's config is not modified")

	info := s.Info()
	assert.Equal(t, 48000, info.SampleRate)
	assert.Equal(t, 256, info.BlockSize)
	assert.Equal(t, 1024, info.Capacity)
	assert.Equal(t, int64(4096), info.MemoryUsage)
	assert.Equal(t, 220.0, info.Frequency)
	assert.Equal(t, 0.7, info.Feedback)
}

func TestNew_DefaultCapacity(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full delay line")
	}

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1<<24, s.Info().Capacity)

	out := make([]float32, 256)
	assert.Equal(t, Continue, s.Process(nil, out))
}

func TestControl_String(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "stop", Stop.String())
	assert.Equal(t, "Control(7)", Control(7).String())
}

func TestSynth_ImplementsProcessor(t *testing.T) {
	var _ Processor = (*Synth)(nil)
}

func TestSynth_Stop(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)
	s.Seed([]float32{1})

	out := make([]float32, 256)
	assert.Equal(t, Continue, s.Process(nil, out))
	assert.False(t, s.Stopped())

	s.Stop()
	for i := range out {
		out[i] = 1
	}
	assert.Equal(t, Stop, s.Process(nil, out))
	assert.True(t, s.Stopped())
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v after stop, want silence", i, v)
		}
	}

	s.Reset()
	assert.True(t, s.Stopped(), "reset does not resume a stopped session")
	assert.Equal(t, Stop, s.Process(nil, out))
}

func TestSynth_StopDuringResetIsKept(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Stop()
	}()
	for range 100 {
		s.Reset()
	}
	<-done
	s.Reset()

	assert.True(t, s.Stopped())
	assert.Equal(t, Stop, s.Process(nil, make([]float32, 16)))
}

func TestSynth_ControllerDrivesEngine(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	c := s.Controller()
	assert.False(t, c.SetFrequency(220), "initial value is already in effect")
	assert.True(t, c.SetFrequency(300))
	assert.True(t, c.SetFeedback(0.8))
	assert.True(t, c.SetFrequency(400))

	// Not applied until the next block
	assert.Equal(t, 220.0, s.Info().Frequency)

	s.Process(nil, make([]float32, 1))
	info := s.Info()
	assert.Equal(t, 400.0, info.Frequency)
	assert.Equal(t, 0.8, info.Feedback)
	assert.InDelta(t, 0.0001*48000.0/400.0, info.Delay, 1e-12)
}

func TestSynth_ResetKeepsControllerValues(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	s.Controller().SetFrequency(330)
	s.Process(nil, make([]float32, 256))
	require.Equal(t, 330.0, s.Info().Frequency)

	s.Reset()
	assert.Equal(t, 220.0, s.Info().Frequency)
	assert.Zero(t, s.Info().WritePointer)

	s.Process(nil, make([]float32, 256))
	assert.Equal(t, 330.0, s.Info().Frequency)
}

func TestSynth_ConcurrentControl(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)
	s.Seed([]float32{1})

	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c := s.Controller()
			for i := range 200 {
				c.SetFrequency(MinFrequency + float64((id*200+i)%400))
				c.SetFeedback(MinFeedback + float64(i%50)/100)
			}
		}(g)
	}

	out := make([]float32, 256)
	for range 400 {
		s.Process(nil, out)
		testutil.AssertNoNaNOrInf(t, out)
	}
	wg.Wait()
}

func TestSynth_ZeroAllocations(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)
	in := make([]float32, 256)
	out := make([]float32, 256)

	allocs := testing.AllocsPerRun(100, func() {
		s.Process(in, out)
	})
	if allocs != 0 {
		t.Errorf("Process allocated %v times per call, want 0", allocs)
	}
}

// 48 kHz, 240 Hz, feedback 0.9: the output repeats every 200 samples (less
// half a sample for the averaged read) and loses 10% per period.
func TestSynth_PluckedStringScenario(t *testing.T) {
	c := testConfig()
	c.Frequency = 240
	c.Feedback = 0.9
	c.PrimeSmoothing = true

	out, err := Render(c, []float32{1}, nil, 20000+4096)
	require.NoError(t, err)

	tail := testutil.ToFloat64(out[20000:])
	period, err := analysis.EstimatePeriod(tail, 100, 400)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, period, testutil.PeriodTolerance)

	ratio, err := analysis.DecayRatio(testutil.ToFloat64(out), 199.5, 199.5/2-1)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, ratio, testutil.DecayTolerance)
}
