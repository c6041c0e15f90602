package ringbuf

// Capacity constants
const (
	// DefaultCapacity is the delay line length in samples (2^24).
	// At 48 kHz this holds a little under six minutes of history.
	DefaultCapacity = 1 << 24

	// minCapacity keeps Evaluate's two-point read well defined.
	minCapacity = 2
)
