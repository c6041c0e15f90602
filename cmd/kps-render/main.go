// Command kps-render renders a plucked string to a WAV file offline.
//
// Usage:
//
//	kps-render out.wav
//	kps-render -freq 240 -feedback 0.9 -duration 3 out.wav
//	kps-render -excite noise -script melody.lua out.wav
//	kps-render -input guitar.wav -feedback 0.97 out.wav       # feed a file as live input
//	kps-render -analyze -freq 240 -feedback 0.9 out.wav       # print measured period and decay
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/host"
	"github.com/tphakala/go-karplus/internal/simdops"
	"github.com/tphakala/go-karplus/internal/surface"
	"github.com/tphakala/go-karplus/internal/wavio"
)

const (
	// CLI defaults
	defaultDuration = 2.0
	defaultBits     = 16
	defaultExcite   = exciteNoise
	minRequiredArgs = 1

	// Script runs end one second after their last event unless they stop.
	scriptTail = time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := karplus.DefaultConfig()

	rate := flag.Int("rate", defaults.SampleRate, "Sample rate in Hz")
	block := flag.Int("block", defaults.BlockSize, "Block size in samples")
	duration := flag.Float64("duration", defaultDuration, "Render length in seconds (0 with -script: until the script stops)")
	freq := flag.Float64("freq", defaults.Frequency, "Initial frequency in Hz")
	feedback := flag.Float64("feedback", defaults.Feedback, "Initial feedback gain")
	excite := flag.String("excite", defaultExcite, "Delay line seed: impulse, noise, none, or an audio file")
	input := flag.String("input", "", "Audio file fed as live input (wav, mp3, ogg, aiff)")
	script := flag.String("script", "", "Lua automation script")
	seed := flag.Uint64("seed", 1, "Noise seed")
	bits := flag.Int("bits", defaultBits, "Output bit depth: 16, 24 or 32")
	gain := flag.Float64("gain", 1.0, "Output gain")
	prime := flag.Bool("prime", true, "Start at the initial pitch instead of gliding into it")
	analyze := flag.Bool("analyze", false, "Measure period and decay of the output")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s pluck.wav                              # 2s at 220 Hz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -freq 240 -feedback 0.9 -analyze a.wav # measure the string\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script melody.lua melody.wav          # automated parameters\n", os.Args[0])
		return errors.New("insufficient arguments")
	}
	outputPath := args[0]

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	config := defaults
	config.SampleRate = *rate
	config.BlockSize = *block
	config.Frequency = *freq
	config.Feedback = *feedback
	config.PrimeSmoothing = *prime

	synth, err := karplus.New(config)
	if err != nil {
		return err
	}

	seedSamples, err := buildExcitation(*excite, config.SampleRate, config.Frequency, *seed)
	if err != nil {
		return err
	}
	synth.Seed(seedSamples)

	offline := &host.Offline{
		Processor: synth,
		BlockSize: config.BlockSize,
	}

	if *input != "" {
		src, err := openInput(*input, config.SampleRate)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		offline.Input = src
	}

	var timeline *surface.Timeline
	if *script != "" {
		events, err := surface.LoadScript(*script)
		if err != nil {
			return err
		}
		timeline = surface.NewTimeline(events, config.SampleRate, synth.Controller(), synth)
		offline.Automation = timeline
	}

	offline.MaxSamples = maxSamples(*duration, config.SampleRate, timeline)
	if offline.MaxSamples <= 0 {
		return fmt.Errorf("nothing to render: duration %v s", *duration)
	}

	writer, err := wavio.Create(outputPath, config.SampleRate, *bits)
	if err != nil {
		return err
	}
	sink := newGainSink(writer, float32(*gain), *analyze)
	offline.Output = sink

	if *verbose {
		log.Printf("Output: %s", outputPath)
		log.Printf("Rate: %d Hz, block %d, %d-bit", config.SampleRate, config.BlockSize, *bits)
		log.Printf("Frequency: %.2f Hz, feedback %.3f", config.Frequency, config.Feedback)
		log.Printf("Excitation: %s (%d samples)", *excite, len(seedSamples))
		if timeline != nil {
			log.Printf("Script: %s (%d events)", *script, len(timeline.Events()))
		}
		log.Printf("SIMD: %s", simdops.CPUInfo())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, runErr := offline.Run(ctx)
	closeErr := writer.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}
	elapsed := time.Since(start)

	fmt.Printf("Rendered %s\n", filepath.Base(outputPath))
	fmt.Printf("  %d samples at %d Hz (%d-bit), %d blocks\n", stats.Samples, config.SampleRate, *bits, stats.Blocks)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.Samples)/float64(config.SampleRate)/elapsed.Seconds())
	if writer.Clipped() > 0 {
		fmt.Printf("  Clipped: %d samples\n", writer.Clipped())
	}
	if stats.Stopped {
		fmt.Printf("  Stopped by script\n")
	}

	if *analyze {
		report, err := analyzeOutput(sink.captured, config.SampleRate, synth.Info().Frequency)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		fmt.Print(report)
	}

	return nil
}
