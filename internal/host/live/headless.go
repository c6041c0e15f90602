//go:build headless

package live

import (
	"context"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/host"
)

// PortAudio is unavailable in headless builds.
type PortAudio struct{}

// NewPortAudio always fails in headless builds.
func NewPortAudio(karplus.Processor, Options) (*PortAudio, error) {
	return nil, host.ErrBackendUnavailable
}

// Run always fails in headless builds.
func (*PortAudio) Run(context.Context) error {
	return host.ErrBackendUnavailable
}

// Oto is unavailable in headless builds.
type Oto struct{}

// NewOto always fails in headless builds.
func NewOto(karplus.Processor, Options) (*Oto, error) {
	return nil, host.ErrBackendUnavailable
}

// Run always fails in headless builds.
func (*Oto) Run(context.Context) error {
	return host.ErrBackendUnavailable
}
