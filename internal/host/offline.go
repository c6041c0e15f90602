package host

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tphakala/go-karplus"
)

// Offline renders a processor block by block without a clock.
type Offline struct {
	// Processor renders each block. Required.
	Processor karplus.Processor

	// BlockSize is the number of samples per block. Required.
	BlockSize int

	// Input provides live input. nil means silence. Input that ends early
	// is followed by silence.
	Input Source

	// Output receives every rendered block. nil discards output.
	Output Sink

	// Automation is advanced before each block. Optional.
	Automation Automation

	// MaxSamples stops the session after this many samples; the final block
	// is shortened to fit. 0 runs until the processor returns Stop.
	MaxSamples int64
}

// Stats summarizes an offline session.
type Stats struct {
	Blocks  int64
	Samples int64

	// Stopped is true when the processor ended the session.
	Stopped bool
}

// Run renders until the processor returns Stop, MaxSamples is reached or
// ctx is canceled. The context is checked between blocks only.
func (o *Offline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if o.Processor == nil {
		return stats, errors.New("offline host: nil processor")
	}
	if o.BlockSize <= 0 {
		return stats, fmt.Errorf("offline host: invalid block size %d", o.BlockSize)
	}

	in := make([]float32, o.BlockSize)
	out := make([]float32, o.BlockSize)
	inputDone := o.Input == nil

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n := o.BlockSize
		if o.MaxSamples > 0 {
			left := o.MaxSamples - stats.Samples
			if left <= 0 {
				return stats, nil
			}
			n = int(min(int64(n), left))
		}

		var block []float32
		if !inputDone {
			got, err := readFull(o.Input, in[:n])
			switch {
			case errors.Is(err, io.EOF):
				inputDone = true
			case err != nil:
				return stats, fmt.Errorf("offline host: reading input: %w", err)
			}
			clear(in[got:n])
			block = in[:n]
		}

		if o.Automation != nil {
			o.Automation.Advance(stats.Samples)
		}

		ctl := o.Processor.Process(block, out[:n])
		if ctl == karplus.Stop {
			stats.Stopped = true
			return stats, nil
		}

		if o.Output != nil {
			if err := o.Output.Write(out[:n]); err != nil {
				return stats, fmt.Errorf("offline host: writing output: %w", err)
			}
		}
		stats.Blocks++
		stats.Samples += int64(n)
	}
}

// readFull reads until dst is full or the source ends.
func readFull(src Source, dst []float32) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
	}
	return total, nil
}
