// Package karplus provides a real-time Karplus-Strong string synthesizer in
// pure Go.
//
// A Synth mixes live input with a fed-back, fractionally delayed copy of its
// own output. The delay length sets the pitch (sampleRate/frequency) and the
// feedback gain sets how slowly the string decays. Both parameters are
// one-pole smoothed toward their targets so that changes never click.
//
// # Features
//
//   - Fractional delay read with linear interpolation over a 2^24-sample history
//   - Two-tap averaged read, the classic Karplus-Strong lowpass in the loop
//   - Lock-free, allocation-free processing path suitable for audio callbacks
//   - Unbounded many-producer parameter channel with duplicate suppression
//   - Guards against zero, negative and non-finite parameter targets
//
// # Quick Start
//
// Render one second of a plucked string offline:
//
//	config := karplus.DefaultConfig()
//	config.PrimeSmoothing = true
//	s, err := karplus.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.Seed([]float32{1})
//
//	out := make([]float32, config.BlockSize)
//	for range config.SampleRate / config.BlockSize {
//	    s.Process(nil, out)
//	    writeOutput(out)
//	}
//
// For live use, hand the Synth to an audio host as its [Processor] and drive
// parameters from another goroutine through [Synth.Controller]:
//
//	c := s.Controller()
//	c.SetFrequency(330)
//	c.SetFeedback(0.95)
//
// # Concurrency
//
// A Synth has two sides. [Synth.Process], [Synth.Seed], [Synth.Reset] and
// [Synth.Info] belong to the processing context and must not be called
// concurrently with each other. [Synth.Controller] and [Synth.Stop] may be used
// from any goroutine. Parameter changes become audible at the start of the
// next block; a block that has started always completes with the parameters
// it started with.
package karplus
