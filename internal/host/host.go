// Package host drives a karplus.Processor with fixed-size blocks.
//
// The Offline host renders as fast as possible into a Sink and is used by
// kps-render and the tests. Real-time audio backends live in host/live and
// share the ShutdownHandler contract defined here.
package host

import (
	"errors"
	"log"
	"os"
)

// ErrBackendUnavailable indicates the requested audio backend is not
// compiled in or cannot be opened on this machine.
var ErrBackendUnavailable = errors.New("audio backend unavailable")

// Source supplies live input. It matches the audpbx audio.Source read
// method: n is the number of samples written, io.EOF ends the stream.
type Source interface {
	ReadSamples(dst []float32) (n int, err error)
}

// Sink consumes rendered blocks.
type Sink interface {
	Write(samples []float32) error
}

// Automation is advanced once per block with the index of the block's
// first sample, before the block is processed. It typically sends due
// parameter changes through a controller.
type Automation interface {
	Advance(sample int64)
}

// ShutdownHandler is invoked when an audio backend reports an abnormal
// shutdown. It is expected not to return.
type ShutdownHandler func(reason string)

// exit is replaced in tests.
var exit = os.Exit

// DefaultShutdown logs the reason and terminates the process with status 1.
func DefaultShutdown(reason string) {
	log.Printf("host: audio backend shut down: %s", reason)
	exit(1)
}
