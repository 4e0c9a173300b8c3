package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/killallgit/madchat/pkg/chat"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/stream"
)

// FakeOpener records every opened session and lets tests drive the
// callbacks by hand
type FakeOpener struct {
	mu       sync.Mutex
	sessions []*FakeSession
}

func NewFakeOpener() *FakeOpener {
	return &FakeOpener{}
}

// Open implements controllers.Opener
func (o *FakeOpener) Open(ctx context.Context, question string, history []chat.HistoryPair, handler stream.Handler) controllers.Session {
	session := &FakeSession{
		id:       uuid.New().String(),
		Question: question,
		History:  append([]chat.HistoryPair(nil), history...),
		handler:  handler,
	}

	o.mu.Lock()
	o.sessions = append(o.sessions, session)
	o.mu.Unlock()
	return session
}

// Sessions returns every session opened so far
func (o *FakeOpener) Sessions() []*FakeSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*FakeSession(nil), o.sessions...)
}

// Last returns the most recently opened session, or nil
func (o *FakeOpener) Last() *FakeSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sessions) == 0 {
		return nil
	}
	return o.sessions[len(o.sessions)-1]
}

// FakeSession delivers callbacks straight to the handler, including after
// Cancel, so tests can simulate late events.
type FakeSession struct {
	id       string
	Question string
	History  []chat.HistoryPair
	handler  stream.Handler

	mu        sync.Mutex
	cancelled int
}

func (s *FakeSession) ID() string {
	return s.id
}

func (s *FakeSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled++
}

// Cancelled reports whether Cancel has been called
func (s *FakeSession) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled > 0
}

// Tokens delivers each token in order
func (s *FakeSession) Tokens(tokens ...string) {
	for _, t := range tokens {
		s.handler.OnToken(t)
	}
}

func (s *FakeSession) Complete() {
	s.handler.OnComplete()
}

func (s *FakeSession) Fail(err error) {
	s.handler.OnError(err)
}
