// Package wavio reads and writes mono PCM WAV files.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV indicates the input is not a readable WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrBitDepth indicates an unsupported PCM bit depth.
	ErrBitDepth = errors.New("unsupported bit depth")
)

// Writer encodes float samples as mono PCM. Samples outside [-1, 1] are clamped.
type Writer struct {
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	maxVal   float64
	frames   int64
	clipped  int64
	closer   io.Closer
	bitDepth int
}

// NewWriter creates a writer on ws. bitDepth must be 16, 24 or 32.
func NewWriter(ws io.WriteSeeker, sampleRate, bitDepth int) (*Writer, error) {
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	return &Writer{
		enc: wav.NewEncoder(ws, sampleRate, bitDepth, monoChannels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Data:           make([]int, 0, minBufferSize),
			Format:         &audio.Format{NumChannels: monoChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		maxVal:   maxVal,
		bitDepth: bitDepth,
	}, nil
}

// Create creates the file at path and returns a writer on it. Close closes
// the file too.
func Create(path string, sampleRate, bitDepth int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := NewWriter(f, sampleRate, bitDepth)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write converts and encodes samples.
func (w *Writer) Write(samples []float32) error {
	data := w.buf.Data[:0]
	for _, s := range samples {
		sample := float64(s)
		if sample > 1.0 {
			sample = 1.0
			w.clipped++
		} else if sample < -1.0 {
			sample = -1.0
			w.clipped++
		}
		data = append(data, int(sample*w.maxVal))
	}
	w.buf.Data = data

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	w.frames += int64(len(samples))
	return nil
}

// Frames returns the number of samples written.
func (w *Writer) Frames() int64 {
	return w.frames
}

// Clipped returns the number of samples that had to be clamped.
func (w *Writer) Clipped() int64 {
	return w.clipped
}

// BitDepth returns the PCM bit depth.
func (w *Writer) BitDepth() int {
	return w.bitDepth
}

// Close finalizes the WAV header and closes the underlying file if the
// writer was created with Create.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		if w.closer != nil {
			_ = w.closer.Close()
		}
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// ReadMono decodes a PCM WAV stream, averaging all channels to mono.
// It returns the samples normalized to [-1, 1] and the sample rate.
func ReadMono(r io.ReadSeeker) ([]float32, int, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	out, err := Downmix(buf, int(decoder.BitDepth))
	if err != nil {
		return nil, 0, err
	}

	return out, buf.Format.SampleRate, nil
}

// Downmix averages the channels of an interleaved PCM buffer to mono and
// normalizes the result to [-1, 1] for the given bit depth.
func Downmix(buf *audio.IntBuffer, bitDepth int) ([]float32, error) {
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return nil, err
	}

	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}
	channels := buf.Format.NumChannels

	frames := len(buf.Data) / channels
	scale := 1.0 / (maxVal * float64(channels))
	out := make([]float32, frames)
	for i := range frames {
		sum := 0
		for ch := range channels {
			sum += buf.Data[i*channels+ch]
		}
		out[i] = float32(float64(sum) * scale)
	}

	return out, nil
}

// ReadFile opens path and decodes it with ReadMono.
func ReadFile(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadMono(f)
}

func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
}
