package process

import (
	"errors"
	"testing"

	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/stretchr/testify/assert"
)

func TestFromSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot controllers.Snapshot
		expected State
	}{
		{"idle", controllers.Snapshot{State: controllers.StateIdle}, StateIdle},
		{"awaiting without text", controllers.Snapshot{State: controllers.StateAwaitingResponse, HasPending: true}, StateSending},
		{"awaiting with text", controllers.Snapshot{State: controllers.StateAwaitingResponse, HasPending: true, Pending: "Hi"}, StateReceiving},
		{"cancelled", controllers.Snapshot{State: controllers.StateIdle, Err: controllers.ErrCancelled}, StateCancelled},
		{"failed", controllers.Snapshot{State: controllers.StateIdle, Err: errors.New("boom")}, StateFailed},
		{"timed out", controllers.Snapshot{State: controllers.StateIdle, Err: controllers.ErrResponseTimeout}, StateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromSnapshot(tt.snapshot))
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected string
	}{
		{"idle state", StateIdle, ""},
		{"sending state", StateSending, "sending"},
		{"receiving state", StateReceiving, "receiving"},
		{"failed state", StateFailed, "failed"},
		{"cancelled state", StateCancelled, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestStateGetIcon(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected string
	}{
		{"idle icon", StateIdle, ""},
		{"sending icon", StateSending, "↑"},
		{"receiving icon", StateReceiving, "↓"},
		{"failed icon", StateFailed, "✗"},
		{"cancelled icon", StateCancelled, "⊘"},
		{"unknown state", State("unknown"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.GetIcon())
		})
	}
}

func TestStateGetDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected string
	}{
		{"idle display", StateIdle, "Idle"},
		{"sending display", StateSending, "Waiting for response"},
		{"receiving display", StateReceiving, "Receiving"},
		{"failed display", StateFailed, "Failed"},
		{"cancelled display", StateCancelled, "Cancelled"},
		{"unknown display", State("unknown"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.GetDisplayName())
		})
	}
}

func TestStateActive(t *testing.T) {
	assert.True(t, StateSending.Active())
	assert.True(t, StateReceiving.Active())
	assert.False(t, StateIdle.Active())
	assert.False(t, StateFailed.Active())
}
