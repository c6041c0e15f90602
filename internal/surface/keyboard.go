package surface

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal indicates stdin is not an interactive terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Key is a decoded keyboard command.
type Key int

const (
	KeyNone Key = iota
	KeyPitchUp
	KeyPitchDown
	KeyFeedbackUp
	KeyFeedbackDown
	KeyQuit
)

const (
	semitone     = 1.0594630943592953 // 2^(1/12)
	feedbackStep = 0.01

	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// ParseKeys decodes raw terminal input. Arrow keys, vi keys (k/j/l/h) and
// +/- adjust parameters; q, Esc and Ctrl-C quit. Unknown bytes are skipped.
func ParseKeys(b []byte) []Key {
	var keys []Key
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case keyEscape:
			if i+2 < len(b) && b[i+1] == '[' {
				switch b[i+2] {
				case 'A':
					keys = append(keys, KeyPitchUp)
				case 'B':
					keys = append(keys, KeyPitchDown)
				case 'C':
					keys = append(keys, KeyFeedbackUp)
				case 'D':
					keys = append(keys, KeyFeedbackDown)
				}
				i += 2
				continue
			}
			keys = append(keys, KeyQuit)
		case 'k', '+', '=':
			keys = append(keys, KeyPitchUp)
		case 'j', '-', '_':
			keys = append(keys, KeyPitchDown)
		case 'l', ']':
			keys = append(keys, KeyFeedbackUp)
		case 'h', '[':
			keys = append(keys, KeyFeedbackDown)
		case 'q', 'Q', keyCtrlC:
			keys = append(keys, KeyQuit)
		}
	}
	return keys
}

// Keyboard controls a synthesizer from the terminal.
type Keyboard struct {
	ctl    Controls
	stop   Stopper
	status io.Writer
}

// NewKeyboard creates a keyboard surface. Status lines are written to status
// when it is not nil.
func NewKeyboard(ctl Controls, stop Stopper, status io.Writer) *Keyboard {
	return &Keyboard{ctl: ctl, stop: stop, status: status}
}

// Apply executes one key. It reports false once the key asks to quit.
func (k *Keyboard) Apply(key Key) bool {
	switch key {
	case KeyPitchUp:
		k.ctl.SetFrequency(ClampFrequency(k.ctl.Frequency() * semitone))
	case KeyPitchDown:
		k.ctl.SetFrequency(ClampFrequency(k.ctl.Frequency() / semitone))
	case KeyFeedbackUp:
		k.ctl.SetFeedback(ClampFeedback(roundStep(k.ctl.Feedback() + feedbackStep)))
	case KeyFeedbackDown:
		k.ctl.SetFeedback(ClampFeedback(roundStep(k.ctl.Feedback() - feedbackStep)))
	case KeyQuit:
		if k.stop != nil {
			k.stop.Stop()
		}
		return false
	}
	return true
}

// roundStep removes accumulated float error from repeated steps.
func roundStep(v float64) float64 {
	return math.Round(v/feedbackStep) * feedbackStep
}

// Run puts stdin in raw mode and applies keys until quit, ctx is done or
// stdin closes. The terminal is restored before Run returns.
func (k *Keyboard) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("keyboard: failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	return k.run(ctx, os.Stdin)
}

// run reads r in a goroutine; a blocked read is abandoned on ctx.Done.
func (k *Keyboard) run(ctx context.Context, r io.Reader) error {
	chunks := make(chan []byte)
	errs := make(chan error, 1)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errs <- err
				return
			}
		}
	}()

	k.printStatus()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("keyboard: %w", err)
		case chunk := <-chunks:
			for _, key := range ParseKeys(chunk) {
				if !k.Apply(key) {
					return nil
				}
			}
			k.printStatus()
		}
	}
}

func (k *Keyboard) printStatus() {
	if k.status == nil {
		return
	}
	fmt.Fprintf(k.status, "\rfrequency %6.1f Hz   feedback %.2f   (arrows adjust, q quits) ",
		k.ctl.Frequency(), k.ctl.Feedback())
}
