package surface

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrScript indicates an automation script failed to load or run.
var ErrScript = errors.New("automation script error")

// EventKind identifies what an automation event changes.
type EventKind int

const (
	// SetFrequency changes the pitch target.
	SetFrequency EventKind = iota + 1

	// SetFeedback changes the feedback target.
	SetFeedback

	// StopSession ends the session.
	StopSession
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case SetFrequency:
		return "frequency"
	case SetFeedback:
		return "feedback"
	case StopSession:
		return "stop"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one scheduled parameter change.
type Event struct {
	At    time.Duration
	Kind  EventKind
	Value float64
}

// Timeline plays a time-ordered list of events against a synthesizer. It
// implements host.Automation.
type Timeline struct {
	events     []Event
	next       int
	sampleRate int
	ctl        Controls
	stop       Stopper
}

// NewTimeline sorts events by time and binds them to a synthesizer. Events
// with equal times keep their relative order.
func NewTimeline(events []Event, sampleRate int, ctl Controls, stop Stopper) *Timeline {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		default:
			return 0
		}
	})

	return &Timeline{
		events:     sorted,
		sampleRate: sampleRate,
		ctl:        ctl,
		stop:       stop,
	}
}

// Advance applies every event due at or before sample.
func (tl *Timeline) Advance(sample int64) {
	for tl.next < len(tl.events) {
		ev := tl.events[tl.next]
		if tl.sampleAt(ev.At) > sample {
			return
		}
		tl.apply(ev)
		tl.next++
	}
}

func (tl *Timeline) apply(ev Event) {
	switch ev.Kind {
	case SetFrequency:
		tl.ctl.SetFrequency(ClampFrequency(ev.Value))
	case SetFeedback:
		tl.ctl.SetFeedback(ClampFeedback(ev.Value))
	case StopSession:
		if tl.stop != nil {
			tl.stop.Stop()
		}
	}
}

func (tl *Timeline) sampleAt(d time.Duration) int64 {
	return int64(math.Round(d.Seconds() * float64(tl.sampleRate)))
}

// Events returns the sorted events.
func (tl *Timeline) Events() []Event {
	return tl.events
}

// Pending returns the number of events not yet applied.
func (tl *Timeline) Pending() int {
	return len(tl.events) - tl.next
}

// End returns the time of the last event, or 0 for an empty timeline.
func (tl *Timeline) End() time.Duration {
	if len(tl.events) == 0 {
		return 0
	}
	return tl.events[len(tl.events)-1].At
}

// LoadScript runs a Lua automation file and returns the events it scheduled.
func LoadScript(path string) ([]Event, error) {
	return runScript(func(L *lua.LState) error { return L.DoFile(path) })
}

// ParseScript runs Lua automation source and returns the events it scheduled.
//
// Scripts schedule events with three functions, times in seconds:
//
//	frequency(t, hz)
//	feedback(t, v)
//	stop(t)
func ParseScript(src string) ([]Event, error) {
	return runScript(func(L *lua.LState) error { return L.DoString(src) })
}

func runScript(run func(*lua.LState) error) ([]Event, error) {
	L := lua.NewState()
	defer L.Close()

	var events []Event
	schedule := func(kind EventKind, withValue bool) lua.LGFunction {
		return func(L *lua.LState) int {
			t := float64(L.CheckNumber(1))
			if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
				L.ArgError(1, "time must be a non-negative number of seconds")
				return 0
			}
			ev := Event{At: time.Duration(t * float64(time.Second)), Kind: kind}
			if withValue {
				ev.Value = float64(L.CheckNumber(2))
			}
			events = append(events, ev)
			return 0
		}
	}

	L.SetGlobal("frequency", L.NewFunction(schedule(SetFrequency, true)))
	L.SetGlobal("feedback", L.NewFunction(schedule(SetFeedback, true)))
	L.SetGlobal("stop", L.NewFunction(schedule(StopSession, false)))

	if err := run(L); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}
	return events, nil
}
