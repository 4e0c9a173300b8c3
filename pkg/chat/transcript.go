package chat

import (
	"errors"
	"strings"
)

// ErrNoPending is returned when a token arrives while no answer is in flight
var ErrNoPending = errors.New("no pending answer")

// Transcript holds the committed exchanges and the assistant's in-progress
// answer. At most one pending answer exists at a time.
//
// A Transcript is not safe for concurrent use; its owner serializes access.
type Transcript struct {
	exchanges  []Exchange
	pending    strings.Builder
	hasPending bool
	fragments  int
}

// NewTranscript creates the initial state: a single assistant greeting and no
// pending answer.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{}
	if greeting != "" {
		t.exchanges = append(t.exchanges, NewAssistantExchange(greeting))
	}
	return t
}

// AppendUser appends the trimmed text as a user exchange. Blank text is
// ignored and reported as false.
func (t *Transcript) AppendUser(text string) bool {
	exchange := NewUserExchange(text)
	if exchange.IsEmpty() {
		return false
	}
	t.exchanges = append(t.exchanges, exchange)
	return true
}

// BeginPending marks an answer as in flight with empty text.
func (t *Transcript) BeginPending() {
	t.pending.Reset()
	t.hasPending = true
	t.fragments = 0
}

// AppendToken adds a fragment to the pending answer in arrival order.
func (t *Transcript) AppendToken(fragment string) error {
	if !t.hasPending {
		return ErrNoPending
	}
	t.pending.WriteString(fragment)
	t.fragments++
	return nil
}

// CommitPending turns the pending answer into an assistant exchange and
// clears it in the same step. It reports false when nothing is pending, so a
// repeated completion cannot duplicate the answer.
func (t *Transcript) CommitPending() (Exchange, bool) {
	if !t.hasPending {
		return Exchange{}, false
	}
	exchange := NewAssistantExchange(t.pending.String())
	t.exchanges = append(t.exchanges, exchange)
	t.clearPending()
	return exchange, true
}

// DiscardPending drops the pending answer without committing it.
func (t *Transcript) DiscardPending() bool {
	if !t.hasPending {
		return false
	}
	t.clearPending()
	return true
}

func (t *Transcript) clearPending() {
	t.pending.Reset()
	t.hasPending = false
	t.fragments = 0
}

// Pending returns the in-progress answer and whether one exists.
func (t *Transcript) Pending() (string, bool) {
	if !t.hasPending {
		return "", false
	}
	return t.pending.String(), true
}

// PendingFragments returns how many fragments the pending answer was built from.
func (t *Transcript) PendingFragments() int {
	return t.fragments
}

// Exchanges returns a copy of the committed exchanges, oldest first.
func (t *Transcript) Exchanges() []Exchange {
	result := make([]Exchange, len(t.exchanges))
	copy(result, t.exchanges)
	return result
}

func (t *Transcript) Len() int {
	return len(t.exchanges)
}

// LastUser returns the index of the most recent user exchange, or -1.
func (t *Transcript) LastUser() int {
	for i := len(t.exchanges) - 1; i >= 0; i-- {
		if t.exchanges[i].IsUser() {
			return i
		}
	}
	return -1
}
