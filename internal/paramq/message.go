package paramq

import "fmt"

// Kind tags a parameter message.
type Kind uint8

const (
	// FeedbackChanged carries a new feedback target (nominally [0.5, 1.0]).
	FeedbackChanged Kind = iota + 1

	// FrequencyChanged carries a new frequency target in Hz (nominally [130, 600]).
	FrequencyChanged
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case FeedbackChanged:
		return "feedback"
	case FrequencyChanged:
		return "frequency"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message is an immutable parameter change sent from the control context to
// the processing context. Each message is consumed exactly once.
type Message struct {
	Kind  Kind
	Value float64
}

// Feedback returns a FeedbackChanged message.
func Feedback(v float64) Message {
	return Message{Kind: FeedbackChanged, Value: v}
}

// Frequency returns a FrequencyChanged message.
func Frequency(hz float64) Message {
	return Message{Kind: FrequencyChanged, Value: hz}
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("%s=%g", m.Kind, m.Value)
}
