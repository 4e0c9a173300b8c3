package process

import (
	"errors"

	"github.com/killallgit/madchat/pkg/controllers"
)

// State is the user-facing progress of the current submission
type State string

const (
	// StateIdle indicates no active request
	StateIdle State = ""

	// StateSending indicates the question was sent and no text has arrived yet
	StateSending State = "sending"

	// StateReceiving indicates answer text is streaming in
	StateReceiving State = "receiving"

	// StateFailed indicates the last answer ended with an error
	StateFailed State = "failed"

	// StateCancelled indicates the user abandoned the last answer
	StateCancelled State = "cancelled"
)

// FromSnapshot derives the display state of a controller snapshot
func FromSnapshot(s controllers.Snapshot) State {
	switch {
	case s.Waiting() && s.Pending == "":
		return StateSending
	case s.Waiting():
		return StateReceiving
	case errors.Is(s.Err, controllers.ErrCancelled):
		return StateCancelled
	case s.Err != nil:
		return StateFailed
	default:
		return StateIdle
	}
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Active reports whether a request is in flight
func (s State) Active() bool {
	return s == StateSending || s == StateReceiving
}

// GetIcon returns the appropriate icon for a given process state
func (s State) GetIcon() string {
	switch s {
	case StateSending:
		return "↑"
	case StateReceiving:
		return "↓"
	case StateFailed:
		return "✗"
	case StateCancelled:
		return "⊘"
	default:
		return ""
	}
}

// GetDisplayName returns a human-readable name for the state
func (s State) GetDisplayName() string {
	switch s {
	case StateSending:
		return "Waiting for response"
	case StateReceiving:
		return "Receiving"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	case StateIdle:
		return "Idle"
	default:
		return ""
	}
}
