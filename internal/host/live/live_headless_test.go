//go:build headless

package live

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/host"
)

func TestOpen_Headless(t *testing.T) {
	s, err := karplus.New(&karplus.Config{SampleRate: 48000, BlockSize: 256, Capacity: 1024, Frequency: 220, Feedback: 0.7})
	require.NoError(t, err)

	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			_, err := Open(name, s, Options{SampleRate: 48000, BlockSize: 256})
			require.ErrorIs(t, err, host.ErrBackendUnavailable)
		})
	}
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(PortAudioBackend, nil, Options{})
	require.Error(t, err)

	_, err = Open("jack", nil, Options{SampleRate: 48000, BlockSize: 256})
	require.ErrorIs(t, err, host.ErrBackendUnavailable)
}

func TestOptions_Normalize(t *testing.T) {
	o := Options{SampleRate: 48000, BlockSize: 64}
	require.NoError(t, o.normalize())
	require.Equal(t, float32(1), o.Gain)
	require.NotNil(t, o.Shutdown)
}
