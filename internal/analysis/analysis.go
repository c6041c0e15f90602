// Package analysis measures rendered output: pitch period, decay and level.
// It backs the tests and the -analyze report of kps-render.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-karplus/internal/simdops"
)

var (
	// ErrTooShort indicates the signal does not cover the requested lags or periods.
	ErrTooShort = errors.New("signal too short")

	// ErrSilent indicates the signal has no energy to measure.
	ErrSilent = errors.New("signal is silent")
)

// Autocorrelation returns the biased autocorrelation of x for lags
// 0..maxLag, normalized so that lag 0 is 1. It is computed through an FFT
// of the zero-padded signal.
func Autocorrelation(x []float64, maxLag int) ([]float64, error) {
	n := len(x)
	if maxLag < 0 || maxLag >= n {
		return nil, fmt.Errorf("%w: %d samples for max lag %d", ErrTooShort, n, maxLag)
	}

	fftSize := minFFTSize
	for fftSize < paddingFactor*n {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)
	padded := make([]float64, fftSize)
	copy(padded, x)

	coeffs := fft.Coefficients(nil, padded)
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		coeffs[i] = complex(re*re+im*im, 0)
	}
	acf := fft.Sequence(nil, coeffs)

	if acf[0] <= 0 {
		return nil, ErrSilent
	}
	result := acf[:maxLag+1]
	f64.Scale(result, result, 1/acf[0])

	return result, nil
}

// EstimatePeriod returns the fundamental period of x in samples, searched
// between minLag and maxLag inclusive. The autocorrelation peak is refined
// with parabolic interpolation, so the result is fractional.
func EstimatePeriod(x []float64, minLag, maxLag int) (float64, error) {
	if minLag < 1 || maxLag <= minLag {
		return 0, fmt.Errorf("invalid lag range [%d, %d]", minLag, maxLag)
	}

	acf, err := Autocorrelation(x, maxLag+1)
	if err != nil {
		return 0, err
	}

	lag := minLag + floats.MaxIdx(acf[minLag:maxLag+1])

	// Parabolic refinement through the peak and its neighbours
	y0, y1, y2 := acf[lag-1], acf[lag], acf[lag+1]
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return float64(lag), nil
	}
	shift := 0.5 * (y0 - y2) / denom
	if math.Abs(shift) > 1 {
		shift = 0
	}

	return float64(lag) + shift, nil
}

// DecayRatio returns the average per-period ratio of signal mass. The signal
// is cut into consecutive windows of one period starting at offset, each
// window's samples are summed, and the geometric mean of the ratios between
// successive sums is returned. For a plucked string with the averaged
// two-tap read this equals the loop feedback.
func DecayRatio(x []float64, period, offset float64) (float64, error) {
	if period < 1 {
		return 0, fmt.Errorf("invalid period %v", period)
	}
	if offset < 0 {
		offset = 0
	}

	var first, last float64
	windows := 0
	for k := 0; ; k++ {
		lo := int(math.Round(offset + float64(k)*period))
		hi := int(math.Round(offset + float64(k+1)*period))
		if hi > len(x) {
			break
		}

		sum := math.Abs(floats.Sum(x[lo:hi]))
		if sum == 0 {
			break
		}
		if windows == 0 {
			first = sum
		}
		last = sum
		windows++
	}

	if windows < 2 {
		return 0, fmt.Errorf("%w: need two non-silent periods, got %d", ErrTooShort, windows)
	}

	return math.Pow(last/first, 1/float64(windows-1)), nil
}

// Peak returns the largest absolute sample value.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Max(floats.Max(x), -floats.Min(x))
}

// RMS returns the root mean square level of x.
func RMS[F simdops.Float](x []F) float64 {
	return simdops.RMS(x)
}

// Decibels converts a linear level to dBFS. Silence maps to -Inf.
func Decibels(level float64) float64 {
	return 20 * math.Log10(level)
}
