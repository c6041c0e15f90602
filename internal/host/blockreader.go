package host

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/simdops"
)

const bytesPerFloat32 = 4

// BlockReader adapts a processor to a pull-model audio output. Each Read
// is served from whole blocks rendered with no input, encoded as
// little-endian float32. Once the processor returns Stop the reader
// produces silence and Done is closed.
type BlockReader struct {
	p     karplus.Processor
	block []float32
	pos   int
	gain  float32

	stopped bool
	done    chan struct{}
	once    sync.Once
}

// NewBlockReader creates a reader rendering blockSize samples at a time
// with the given output gain.
func NewBlockReader(p karplus.Processor, blockSize int, gain float32) *BlockReader {
	block := make([]float32, blockSize)
	return &BlockReader{
		p:     p,
		block: block,
		pos:   len(block),
		gain:  gain,
		done:  make(chan struct{}),
	}
}

// Read fills b with whole samples and returns the number of bytes written.
// It never returns an error.
func (r *BlockReader) Read(b []byte) (int, error) {
	n := 0
	for n+bytesPerFloat32 <= len(b) {
		if r.pos == len(r.block) {
			r.render()
		}
		binary.LittleEndian.PutUint32(b[n:], math.Float32bits(r.block[r.pos]))
		r.pos++
		n += bytesPerFloat32
	}
	return n, nil
}

func (r *BlockReader) render() {
	r.pos = 0
	if r.stopped {
		clear(r.block)
		return
	}
	if r.p.Process(nil, r.block) == karplus.Stop {
		r.stopped = true
		r.once.Do(func() { close(r.done) })
		clear(r.block)
		return
	}
	simdops.Gain(r.block, r.gain)
}

// Done is closed once the processor has returned Stop.
func (r *BlockReader) Done() <-chan struct{} {
	return r.done
}
