// Command kps plays a Karplus-Strong string live on the default audio device.
//
// Usage:
//
//	kps
//	kps -freq 330 -feedback 0.98
//	kps -backend oto -gain 0.5      # output only, no live input
//
// The PortAudio backend is full duplex: the default input device is fed
// through the string. Arrow keys change pitch and feedback, q quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/go-karplus"
	"github.com/tphakala/go-karplus/internal/excite"
	"github.com/tphakala/go-karplus/internal/host/live"
	"github.com/tphakala/go-karplus/internal/surface"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := karplus.DefaultConfig()

	backend := flag.String("backend", live.PortAudioBackend, "Audio backend: portaudio or oto")
	rate := flag.Int("rate", defaults.SampleRate, "Sample rate in Hz")
	block := flag.Int("block", defaults.BlockSize, "Block size in samples")
	freq := flag.Float64("freq", defaults.Frequency, "Initial frequency in Hz")
	feedback := flag.Float64("feedback", defaults.Feedback, "Initial feedback gain")
	gain := flag.Float64("gain", 1.0, "Output gain")
	pluck := flag.Bool("pluck", true, "Pluck the string with a noise burst at start")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	config := defaults
	config.SampleRate = *rate
	config.BlockSize = *block
	config.Frequency = surface.ClampFrequency(*freq)
	config.Feedback = surface.ClampFeedback(*feedback)

	synth, err := karplus.New(config)
	if err != nil {
		return err
	}
	if *pluck {
		synth.Seed(excite.Pluck(config.SampleRate, config.Frequency, 1))
	}

	out, err := live.Open(*backend, synth, live.Options{
		SampleRate: config.SampleRate,
		BlockSize:  config.BlockSize,
		Gain:       float32(*gain),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", *backend, err)
	}

	if *verbose {
		info := synth.Info()
		log.Printf("Backend: %s", *backend)
		log.Printf("Rate: %d Hz, block %d", info.SampleRate, info.BlockSize)
		log.Printf("Delay line: %d samples (%d MB)", info.Capacity, info.MemoryUsage>>20)
		log.Printf("SIMD: %s", info.SIMDType)
		log.Printf("Initial: %.2f Hz, feedback %.3f", config.Frequency, config.Feedback)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	keyboard := surface.NewKeyboard(synth.Controller(), synth, os.Stderr)
	go func() {
		err := keyboard.Run(ctx)
		switch {
		case errors.Is(err, surface.ErrNotTerminal):
			if *verbose {
				log.Printf("kps: no terminal, keyboard control disabled")
			}
			return
		case err != nil:
			log.Printf("kps: %v", err)
		}
		synth.Stop()
		cancel()
	}()

	if err := out.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)

	if *verbose {
		log.Printf("Session ended at write pointer %d", synth.Info().WritePointer)
	}
	return nil
}
