package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEvent matches events whose payload is not a fragment record
	ErrMalformedEvent = errors.New("malformed event")

	// ErrTransportFailure matches failures to connect or to read the stream
	// before the terminal sentinel
	ErrTransportFailure = errors.New("transport failure")
)

// Kind classifies a stream error
type Kind int

const (
	KindTransport Kind = iota
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindMalformed:
		return "malformed event"
	default:
		return "unknown"
	}
}

// Error is the error passed to Handler.OnError. It preserves any text
// received before the failure.
type Error struct {
	Kind    Kind
	Err     error
	Partial string
}

func (e *Error) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("%s (partial content received: %d chars): %v", e.Kind, len(e.Partial), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against ErrMalformedEvent or
// ErrTransportFailure.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedEvent:
		return e.Kind == KindMalformed
	case ErrTransportFailure:
		return e.Kind == KindTransport
	}
	return false
}

func transportError(err error, partial string) *Error {
	return &Error{Kind: KindTransport, Err: err, Partial: partial}
}

func malformedError(err error) *Error {
	return &Error{Kind: KindMalformed, Err: err}
}

// IsMalformed reports whether err is a malformed event error
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedEvent)
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}
