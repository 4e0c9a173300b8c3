package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/killallgit/madchat/pkg/chat"
	"github.com/killallgit/madchat/pkg/config"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/killallgit/madchat/pkg/stream"
)

// Session is the controller's handle on one open stream
type Session interface {
	ID() string
	Cancel()
}

// Opener starts a streamed answer. Implementations must deliver handler
// callbacks asynchronously, never from within Open.
type Opener interface {
	Open(ctx context.Context, question string, history []chat.HistoryPair, handler stream.Handler) Session
}

type streamOpener struct {
	client *stream.Client
}

// StreamOpener adapts a stream.Client to the Opener interface
func StreamOpener(client *stream.Client) Opener {
	return streamOpener{client: client}
}

func (o streamOpener) Open(ctx context.Context, question string, history []chat.HistoryPair, handler stream.Handler) Session {
	return o.client.Open(ctx, question, history, handler)
}

// Snapshot is a copy of the controller's state for presentation
type Snapshot struct {
	Version uint64
	// Turn counts accepted submissions; Err belongs to this turn
	Turn       uint64
	State      State
	Exchanges  []chat.Exchange
	Pending    string
	HasPending bool
	// Fragments is how many streamed fragments built Pending
	Fragments int
	// LastUser is the index in Exchanges of the most recent question, or -1
	LastUser int
	Question string
	Err      error
}

// Waiting reports whether an answer is in flight
func (s Snapshot) Waiting() bool {
	return s.State == StateAwaitingResponse
}

// Option configures a Controller
type Option func(*Controller)

// WithGreeting sets the synthetic first assistant message
func WithGreeting(greeting string) Option {
	return func(c *Controller) {
		c.greeting = greeting
	}
}

// WithObserver registers a function called with a fresh Snapshot after every
// change. Observers run outside the controller's lock and may be called from
// stream goroutines; use Snapshot.Version to drop stale values.
func WithObserver(observer func(Snapshot)) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, observer)
	}
}

// WithResponseTimeout cancels an answer that has not completed within d.
// Zero disables the guard.
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.responseTimeout = d
	}
}

// WithMaxInputLength rejects questions longer than n characters. Zero
// disables the limit.
func WithMaxInputLength(n int) Option {
	return func(c *Controller) {
		c.maxInputLength = n
	}
}

// Controller runs the submit, stream, commit cycle for one conversation.
// It is safe for concurrent use.
type Controller struct {
	opener          Opener
	greeting        string
	responseTimeout time.Duration
	maxInputLength  int
	observers       []func(Snapshot)

	mu         sync.Mutex
	transcript *chat.Transcript
	state      State
	active     *sessionHandler
	lastErr    error
	version    uint64
	turn       uint64
	idle       chan struct{}
}

func NewController(opener Opener, opts ...Option) *Controller {
	c := &Controller{
		opener:   opener,
		greeting: config.DefaultGreeting,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.transcript = chat.NewTranscript(c.greeting)
	c.idle = make(chan struct{})
	close(c.idle)
	return c
}

// sessionHandler routes one session's callbacks back to the controller. Its
// identity marks the session as current.
type sessionHandler struct {
	c        *Controller
	session  Session
	question string
	timer    *time.Timer
}

func (h *sessionHandler) OnToken(token string) {
	h.c.onToken(h, token)
}

func (h *sessionHandler) OnComplete() {
	h.c.onComplete(h)
}

func (h *sessionHandler) OnError(err error) {
	h.c.onError(h, err)
}

// Submit sends a question. Blank input returns ErrEmptySubmission without
// any change, and a submission while an answer is in flight returns ErrBusy.
func (c *Controller) Submit(ctx context.Context, raw string) error {
	question := strings.TrimSpace(raw)
	if question == "" {
		return ErrEmptySubmission
	}

	c.mu.Lock()
	if c.state == StateAwaitingResponse {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.maxInputLength > 0 {
		if n := utf8.RuneCountInString(question); n > c.maxInputLength {
			c.mu.Unlock()
			return fmt.Errorf("%w: %d characters, limit is %d", ErrInputTooLong, n, c.maxInputLength)
		}
	}

	// The new question is not part of its own history
	history := chat.BuildHistory(c.transcript.Exchanges())
	c.transcript.AppendUser(question)
	c.transcript.BeginPending()
	c.state = StateAwaitingResponse
	c.lastErr = nil
	c.turn++
	c.idle = make(chan struct{})

	h := &sessionHandler{c: c, question: question}
	c.active = h
	h.session = c.opener.Open(ctx, question, history, h)
	if c.responseTimeout > 0 {
		h.timer = time.AfterFunc(c.responseTimeout, func() {
			c.onTimeout(h)
		})
	}
	logger.Info("Submitted question (%d chars) with %d history pairs on session %s", len(question), len(history), h.session.ID())

	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

// Cancel abandons the answer in flight, discarding any partial text. It
// reports false when nothing was in flight.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	h := c.active
	if h == nil {
		c.mu.Unlock()
		return false
	}
	c.transcript.DiscardPending()
	c.finishLocked(h, ErrCancelled)
	logger.Info("Cancelled session %s", h.session.ID())
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return true
}

func (c *Controller) onToken(h *sessionHandler, token string) {
	c.mu.Lock()
	if c.active != h {
		c.mu.Unlock()
		logger.Debug("Discarding token from inactive session")
		return
	}
	if err := c.transcript.AppendToken(token); err != nil {
		c.mu.Unlock()
		logger.Warn("Failed to append token: %v", err)
		return
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) onComplete(h *sessionHandler) {
	c.mu.Lock()
	if c.active != h {
		c.mu.Unlock()
		logger.Debug("Discarding completion from inactive session")
		return
	}
	exchange, ok := c.transcript.CommitPending()
	c.finishLocked(h, nil)
	if ok {
		logger.Info("Committed answer (%d chars) for session %s", len(exchange.Text), h.session.ID())
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) onError(h *sessionHandler, err error) {
	c.fail(h, err)
}

func (c *Controller) onTimeout(h *sessionHandler) {
	c.fail(h, ErrResponseTimeout)
}

// fail discards the pending answer and surfaces err. The question stays in
// the transcript unanswered.
func (c *Controller) fail(h *sessionHandler, err error) {
	c.mu.Lock()
	if c.active != h {
		c.mu.Unlock()
		logger.Debug("Discarding error from inactive session: %v", err)
		return
	}
	c.transcript.DiscardPending()
	c.finishLocked(h, err)
	logger.Warn("Session %s failed: %v", h.session.ID(), err)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
}

// finishLocked returns to Idle. It runs exactly once per submission because
// it clears the active handler that every callback checks.
func (c *Controller) finishLocked(h *sessionHandler, err error) {
	if h.timer != nil {
		h.timer.Stop()
	}
	h.session.Cancel()
	c.active = nil
	c.state = StateIdle
	c.lastErr = err
	close(c.idle)
}

// snapshotLocked records a change and copies the resulting state
func (c *Controller) snapshotLocked() Snapshot {
	c.version++
	return c.copyLocked()
}

func (c *Controller) copyLocked() Snapshot {
	pending, hasPending := c.transcript.Pending()
	snapshot := Snapshot{
		Version:    c.version,
		Turn:       c.turn,
		State:      c.state,
		Exchanges:  c.transcript.Exchanges(),
		Pending:    pending,
		HasPending: hasPending,
		Fragments:  c.transcript.PendingFragments(),
		LastUser:   c.transcript.LastUser(),
		Err:        c.lastErr,
	}
	if c.active != nil {
		snapshot.Question = c.active.question
	}
	return snapshot
}

func (c *Controller) notify(snapshot Snapshot) {
	for _, observer := range c.observers {
		observer(snapshot)
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that ended the most recent submission, if any
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// History returns the pairs that would accompany the next question
func (c *Controller) History() []chat.HistoryPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return chat.BuildHistory(c.transcript.Exchanges())
}

// Wait blocks until no answer is in flight or ctx is done
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
