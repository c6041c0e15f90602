// Package live opens real-time audio backends for a karplus.Processor.
//
// Both backends are built with cgo or platform audio libraries. Building
// with the headless tag replaces them with stubs returning
// host.ErrBackendUnavailable.
package live

import (
	"context"
	"fmt"
	"time"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/host"
)

// Backend names accepted by Open.
const (
	PortAudioBackend = "portaudio"
	OtoBackend       = "oto"
)

// errPollInterval is how often the output-only backend checks its player
// for an asynchronous failure.
const errPollInterval = 100 * time.Millisecond

// Options configures a real-time backend.
type Options struct {
	SampleRate int
	BlockSize  int

	// Gain is applied to every output block. 0 means unity.
	Gain float32

	// Shutdown is called when the backend fails after the session started.
	// nil means host.DefaultShutdown.
	Shutdown host.ShutdownHandler
}

func (o *Options) normalize() error {
	if o.SampleRate <= 0 || o.BlockSize <= 0 {
		return fmt.Errorf("invalid stream parameters: %d Hz, %d frames", o.SampleRate, o.BlockSize)
	}
	if o.Gain == 0 {
		o.Gain = 1
	}
	if o.Shutdown == nil {
		o.Shutdown = host.DefaultShutdown
	}
	return nil
}

// Backend is a running real-time audio session.
type Backend interface {
	// Run starts the stream and blocks until the processor returns Stop or
	// ctx is canceled, then releases the device.
	Run(ctx context.Context) error
}

// Open creates the named backend.
func Open(name string, p karplus.Processor, opts Options) (Backend, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	switch name {
	case PortAudioBackend:
		b, err := NewPortAudio(p, opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	case OtoBackend:
		b, err := NewOto(p, opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", host.ErrBackendUnavailable, name)
	}
}

// Backends lists the backend names Open accepts.
func Backends() []string {
	return []string{PortAudioBackend, OtoBackend}
}
