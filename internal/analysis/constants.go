package analysis

// Autocorrelation constants
const (
	// minFFTSize is the smallest transform used for autocorrelation.
	minFFTSize = 64

	// paddingFactor zero-pads the signal so circular correlation equals
	// linear correlation for every lag.
	paddingFactor = 2
)
