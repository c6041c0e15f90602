package excite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/ik5/audpbx/audio"
	"github.com/ik5/audpbx/formats/mp3"
	"github.com/ik5/audpbx/formats/vorbis"

	"github.com/tphakala/go-karplus/internal/wavio"
)

var (
	// ErrUnsupportedFormat indicates a file extension with no registered decoder.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrSampleRateMismatch indicates a file whose rate differs from the
	// session rate. Files are never resampled.
	ErrSampleRateMismatch = errors.New("sample rate mismatch")

	// ErrInvalidAIFF indicates data that go-audio/aiff cannot decode as PCM.
	ErrInvalidAIFF = errors.New("invalid AIFF file")
)

// registry maps lower-case file extensions to decoders.
var registry = newRegistry()

func newRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wavDecoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aif", aiffDecoder{})
	r.Register("aiff", aiffDecoder{})
	return r
}

// Formats lists the supported file extensions.
func Formats() []string {
	return []string{"wav", "mp3", "ogg", "aif", "aiff"}
}

// Decode decodes r as the given format and downmixes it to mono. The
// returned source must be closed by the caller.
func Decode(r io.Reader, format string, sampleRate int) (audio.Source, error) {
	dec, ok := registry.Get(strings.ToLower(format))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	if src.SampleRate() != sampleRate {
		_ = src.Close()
		return nil, fmt.Errorf("%w: file is %d Hz, session is %d Hz", ErrSampleRateMismatch, src.SampleRate(), sampleRate)
	}

	return &monoSource{MonoMixer: audio.NewMonoMixer(src), src: src}, nil
}

// monoSource is a downmixed source that reports the decoder's buffer size.
type monoSource struct {
	*audio.MonoMixer
	src audio.Source
}

func (m *monoSource) BufSize() int { return m.src.BufSize() }

// Open decodes the whole file at path to mono samples. The file's sample
// rate must equal sampleRate.
func Open(path string, sampleRate int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excitation file: %w", err)
	}
	defer func() { _ = f.Close() }()

	src, err := Decode(f, strings.TrimPrefix(filepath.Ext(path), "."), sampleRate)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return ReadAll(src)
}

// ReadAll drains a mono source.
func ReadAll(src audio.Source) ([]float32, error) {
	var out []float32
	buf := make([]float32, readBufferSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("failed to read samples: %w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}

// wavDecoder decodes any PCM bit depth go-audio/wav understands.
type wavDecoder struct{}

func (wavDecoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	samples, rate, err := wavio.ReadMono(rs)
	if err != nil {
		return nil, err
	}
	return &memorySource{samples: samples, sampleRate: rate}, nil
}

// aiffDecoder decodes PCM AIFF with go-audio/aiff at any bit depth the
// WAV path accepts.
type aiffDecoder struct{}

func (aiffDecoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrInvalidAIFF
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAIFF, err)
	}

	samples, err := wavio.Downmix(buf, int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAIFF, err)
	}
	return &memorySource{samples: samples, sampleRate: buf.Format.SampleRate}, nil
}

// readSeeker buffers r in memory unless it can already seek.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// memorySource is a mono audio.Source over decoded samples.
type memorySource struct {
	samples    []float32
	sampleRate int
	pos        int
}

func (s *memorySource) SampleRate() int { return s.sampleRate }
func (s *memorySource) Channels() int   { return 1 }
func (s *memorySource) BufSize() int    { return readBufferSize }
func (s *memorySource) Close() error    { return nil }

func (s *memorySource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(dst, s.samples[s.pos:])
	s.pos += n
	return n, nil
}
