package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ik5/audpbx/audio"

	"github.com/tphakala/go-karplus/internal/analysis"
	"github.com/tphakala/go-karplus/internal/excite"
	"github.com/tphakala/go-karplus/internal/simdops"
	"github.com/tphakala/go-karplus/internal/surface"
	"github.com/tphakala/go-karplus/internal/wavio"
)

// Excitation kinds accepted by -excite besides file paths.
const (
	exciteImpulse = "impulse"
	exciteNoise   = "noise"
	exciteNone    = "none"
)

// Analysis search range, as a fraction of the expected period.
const (
	periodSearchLow  = 0.5
	periodSearchHigh = 2.0
	minAnalyzeLag    = 2
)

// buildExcitation returns the samples seeded into the delay line.
func buildExcitation(kind string, sampleRate int, frequency float64, seed uint64) ([]float32, error) {
	switch strings.ToLower(kind) {
	case exciteImpulse:
		return excite.Impulse(1), nil
	case exciteNoise:
		return excite.Pluck(sampleRate, frequency, seed), nil
	case exciteNone, "":
		return nil, nil
	default:
		return excite.Open(kind, sampleRate)
	}
}

// inputFile is a decoded audio file streamed as live input.
type inputFile struct {
	audio.Source
	f *os.File
}

// openInput opens an audio file for use as live input. Its sample rate
// must match the session rate.
func openInput(path string, sampleRate int) (*inputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	src, err := excite.Decode(f, strings.TrimPrefix(filepath.Ext(path), "."), sampleRate)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &inputFile{Source: src, f: f}, nil
}

// Close closes the decoder and the file.
func (in *inputFile) Close() error {
	err := in.Source.Close()
	if cerr := in.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// maxSamples decides the render length. With a script and no explicit
// duration the render runs until one second past the last event.
func maxSamples(seconds float64, sampleRate int, tl *surface.Timeline) int64 {
	if seconds <= 0 && tl != nil {
		seconds = (tl.End() + scriptTail).Seconds()
	}
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int64(math.Round(seconds * float64(sampleRate)))
}

// gainSink applies output gain before writing and optionally keeps a copy
// of everything written for analysis.
type gainSink struct {
	w        *wavio.Writer
	gain     float32
	capture  bool
	captured []float32
}

func newGainSink(w *wavio.Writer, gain float32, capture bool) *gainSink {
	return &gainSink{w: w, gain: gain, capture: capture}
}

func (s *gainSink) Write(samples []float32) error {
	simdops.Gain(samples, s.gain)
	if s.capture {
		s.captured = append(s.captured, samples...)
	}
	return s.w.Write(samples)
}

// analyzeOutput measures the rendered signal against the expected pitch.
func analyzeOutput(samples []float32, sampleRate int, frequency float64) (string, error) {
	x := make([]float64, len(samples))
	for i, v := range samples {
		x[i] = float64(v)
	}

	expected := float64(sampleRate) / frequency
	minLag := max(minAnalyzeLag, int(expected*periodSearchLow))
	maxLag := int(expected * periodSearchHigh)
	// Skip the attack so the estimate reflects the settled string
	tail := x[len(x)/2:]

	period, err := analysis.EstimatePeriod(tail, minLag, maxLag)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis:\n")
	fmt.Fprintf(&b, "  Expected period: %.2f samples (%.2f Hz)\n", expected, frequency)
	fmt.Fprintf(&b, "  Measured period: %.2f samples (%.2f Hz)\n", period, float64(sampleRate)/period)

	if ratio, err := analysis.DecayRatio(x, period, period/2); err == nil {
		fmt.Fprintf(&b, "  Decay per period: %.4f (T60 %.2fs)\n", ratio, t60(ratio, period, sampleRate).Seconds())
	}

	peak := analysis.Peak(x)
	rms := analysis.RMS(x)
	fmt.Fprintf(&b, "  Peak: %.4f (%.1f dBFS), RMS: %.4f (%.1f dBFS)\n",
		peak, analysis.Decibels(peak), rms, analysis.Decibels(rms))

	return b.String(), nil
}

// t60 is the time for a per-period decay ratio to fall by 60 dB.
func t60(ratio, period float64, sampleRate int) time.Duration {
	if ratio <= 0 || ratio >= 1 {
		return 0
	}
	periods := -3 / math.Log10(ratio)
	return time.Duration(periods * period / float64(sampleRate) * float64(time.Second))
}
