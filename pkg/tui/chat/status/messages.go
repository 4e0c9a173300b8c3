package status

import (
	"time"

	"github.com/killallgit/madchat/pkg/process"
)

// StartStreamingMsg indicates a request was sent
type StartStreamingMsg struct {
	State process.State
}

// SetProcessStateMsg sets the current process state and icon
type SetProcessStateMsg struct {
	State process.State
}

// StopStreamingMsg indicates the request finished
type StopStreamingMsg struct{}

// UpdateReceivedMsg reports how much answer text has arrived
type UpdateReceivedMsg struct {
	Chars     int
	Fragments int
}

// TickMsg updates the timer
type TickMsg time.Time
