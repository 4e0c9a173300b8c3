package controllers

import (
	"errors"
	"fmt"

	"github.com/killallgit/madchat/pkg/stream"
)

// State is the submission lifecycle of a Controller
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptySubmission is returned for blank input. It is not a failure;
	// nothing changes and callers should not display it.
	ErrEmptySubmission = errors.New("empty submission")

	// ErrBusy is returned when a submission arrives while an answer is in flight
	ErrBusy = errors.New("a response is already in progress")

	// ErrInputTooLong is returned when a question exceeds the input limit
	ErrInputTooLong = errors.New("question is too long")

	// ErrCancelled is recorded when the user abandons an answer
	ErrCancelled = errors.New("response cancelled")

	// ErrResponseTimeout is recorded when the response guard expires. It is a
	// transport failure.
	ErrResponseTimeout = fmt.Errorf("%w: no response within the configured timeout", stream.ErrTransportFailure)
)
