package engine

// Tap constants
const (
	// tapWeight is the weight of each of the two averaged fractional reads.
	tapWeight = 0.5

	// tapSpacing is the distance in samples between the two averaged reads.
	tapSpacing = 1.0

	// delayHeadroom keeps both reads (rp and rp+1, plus interpolation
	// neighbour) strictly behind the write pointer.
	delayHeadroom = 2
)

// Parameter guards
const (
	// MinFrequency is the floor applied to the frequency target before the
	// delay length is computed. Zero and negative targets clamp to it.
	MinFrequency = 1.0
)
