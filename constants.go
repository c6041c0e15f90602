package karplus

import "github.com/tphakala/go-karplus/internal/ringbuf"

// Default session parameters
const (
	defaultSampleRate = RateDAT
	defaultBlockSize  = 256
	defaultFrequency  = 220.0
	defaultFeedback   = 0.7
	defaultCapacity   = ringbuf.DefaultCapacity
)

// Configuration limits
const (
	minSampleRate = 1000
	maxSampleRate = 768000
	minBlockSize  = 1
	maxBlockSize  = 1 << 16
	minCapacity   = 4
	maxCapacity   = 1 << 26
)

// Nominal parameter ranges. The engine accepts any value; control surfaces
// clamp to these before sending.
const (
	// MinFrequency and MaxFrequency bound the playable pitch range in Hz.
	MinFrequency = 130.0
	MaxFrequency = 600.0

	// MinFeedback and MaxFeedback bound the loop gain.
	MinFeedback = 0.5
	MaxFeedback = 1.0
)
