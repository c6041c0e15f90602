//go:build !headless

package live

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/host"
)

// Oto is an output-only stream. The processor gets no live input.
type Oto struct {
	opts   Options
	ctx    *oto.Context
	reader *host.BlockReader
}

// NewOto creates the oto context and waits for the device to be ready.
func NewOto(p karplus.Processor, opts Options) (*Oto, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(opts.BlockSize) * time.Second / time.Duration(opts.SampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	return &Oto{
		opts:   opts,
		ctx:    ctx,
		reader: host.NewBlockReader(p, opts.BlockSize, opts.Gain),
	}, nil
}

// Run plays until Stop or ctx is done. A player error after start is
// fatal and goes to the shutdown handler.
func (h *Oto) Run(ctx context.Context) error {
	player := h.ctx.NewPlayer(h.reader)
	defer func() { _ = player.Close() }()
	player.Play()

	ticker := time.NewTicker(errPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.reader.Done():
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := player.Err(); err != nil {
				h.opts.Shutdown(err.Error())
				return fmt.Errorf("oto player: %w", err)
			}
		}
	}
}
