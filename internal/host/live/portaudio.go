//go:build !headless

package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/simdops"
)

// PortAudio is a full-duplex mono stream on the default devices. The
// device input is passed to the processor as live input.
type PortAudio struct {
	p      karplus.Processor
	opts   Options
	stream *portaudio.Stream

	done chan struct{}
	once sync.Once
}

// NewPortAudio initializes PortAudio and opens the default duplex stream.
func NewPortAudio(p karplus.Processor, opts Options) (*PortAudio, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	h := &PortAudio{
		p:    p,
		opts: opts,
		done: make(chan struct{}),
	}

	stream, err := portaudio.OpenDefaultStream(1, 1, float64(opts.SampleRate), opts.BlockSize, h.callback)
	if err != nil {
		portaudio.Terminate() //nolint:errcheck
		return nil, fmt.Errorf("portaudio open stream: %w", err)
	}
	h.stream = stream

	return h, nil
}

// callback runs on the PortAudio thread.
func (h *PortAudio) callback(in, out []float32) {
	if h.p.Process(in, out) == karplus.Stop {
		h.once.Do(func() { close(h.done) })
		return
	}
	simdops.Gain(out, h.opts.Gain)
}

// Run starts the stream and blocks until Stop or ctx is done.
func (h *PortAudio) Run(ctx context.Context) error {
	defer func() {
		_ = h.stream.Close()
		portaudio.Terminate() //nolint:errcheck
	}()

	if err := h.stream.Start(); err != nil {
		return fmt.Errorf("portaudio start stream: %w", err)
	}

	select {
	case <-h.done:
	case <-ctx.Done():
	}

	if err := h.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio stop stream: %w", err)
	}
	return nil
}
