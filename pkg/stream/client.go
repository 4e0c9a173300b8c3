package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/killallgit/madchat/pkg/chat"
	"github.com/killallgit/madchat/pkg/logger"
)

// DefaultSentinel marks the end of a token stream
const DefaultSentinel = "[DONE]"

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 4096

// Request is the body posted to the answering endpoint
type Request struct {
	Question string             `json:"question"`
	History  []chat.HistoryPair `json:"history"`
}

// fragment is the payload of every non-terminal event
type fragment struct {
	Data *string `json:"data"`
}

// Client opens streaming sessions against an answering endpoint
type Client struct {
	endpoint     string
	httpClient   *http.Client
	sentinel     string
	headers      map[string]string
	maxEventSize int
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithSentinel overrides the terminal sentinel
func WithSentinel(sentinel string) Option {
	return func(c *Client) {
		if sentinel != "" {
			c.sentinel = sentinel
		}
	}
}

// WithHeaders adds static headers to every request
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithMaxEventSize bounds the data of a single event
func WithMaxEventSize(size int) Option {
	return func(c *Client) {
		c.maxEventSize = size
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:     endpoint,
		httpClient:   &http.Client{},
		sentinel:     DefaultSentinel,
		headers:      make(map[string]string),
		maxEventSize: DefaultMaxEventSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Open posts the question and history and streams the answer to handler on
// a new goroutine. It returns immediately; the returned Session cancels the
// exchange.
func (c *Client) Open(ctx context.Context, question string, history []chat.HistoryPair, handler Handler) *Session {
	if history == nil {
		history = []chat.HistoryPair{}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		id:       uuid.New().String(),
		question: question,
		cancel:   cancel,
		done:     make(chan struct{}),
		handler:  handler,
	}

	go func() {
		defer close(session.done)
		defer cancel()
		c.run(sessionCtx, session, Request{Question: question, History: history})
	}()

	return session
}

func (c *Client) run(ctx context.Context, session *Session, request Request) {
	logger.Debug("Opening stream %s to %s", session.id, c.endpoint)

	body, err := c.connect(ctx, request)
	if err != nil {
		session.fail(err)
		return
	}
	defer body.Close()

	reader := NewSSEReader(body, c.maxEventSize)
	for {
		event, err := reader.ReadEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			session.fail(fmt.Errorf("stream ended before completion: %w", err))
			return
		}

		if string(event.Data) == c.sentinel {
			logger.Debug("Stream %s complete after %d fragments", session.id, session.Fragments())
			session.complete()
			return
		}

		var frag fragment
		if err := json.Unmarshal(event.Data, &frag); err != nil {
			logger.Warn("Malformed event on stream %s: %v", session.id, err)
			session.malformed(fmt.Errorf("failed to decode fragment: %w", err))
			continue
		}
		if frag.Data == nil {
			logger.Warn("Event on stream %s has no data field", session.id)
			session.malformed(errors.New("fragment has no data field"))
			continue
		}

		session.token(*frag.Data)
	}
}

func (c *Client) connect(ctx context.Context, request Request) (io.ReadCloser, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, errorMessage(resp.Status, body))
	}

	return resp.Body, nil
}

// errorMessage extracts a readable message from a failed response body
func errorMessage(status string, body []byte) string {
	var errorResp struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		var text string
		if len(errorResp.Error) > 0 && json.Unmarshal(errorResp.Error, &text) == nil && text != "" {
			return text
		}
		var nested struct {
			Message string `json:"message"`
		}
		if len(errorResp.Error) > 0 && json.Unmarshal(errorResp.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		if errorResp.Message != "" {
			return errorResp.Message
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}

// Session is one open exchange with the answering endpoint.
//
// Callbacks are delivered from the session's reader goroutine, which checks
// for cancellation before each one. Cancel never waits for that goroutine, so
// it may be called from inside a callback or while holding a lock the
// handler takes. A callback that passed its check before Cancel may still
// run; from within a callback, Cancel stops every later one. At most one
// terminal callback (OnComplete or a transport OnError) is ever delivered.
type Session struct {
	id       string
	question string
	cancel   context.CancelFunc
	done     chan struct{}
	handler  Handler

	closed   atomic.Bool
	finished atomic.Bool

	mu        sync.Mutex
	received  strings.Builder
	fragments int
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Question() string {
	return s.question
}

// Cancel aborts the underlying request and suppresses callbacks that have
// not yet been checked. It does not block and is safe to call more than once.
func (s *Session) Cancel() {
	if s.closed.CompareAndSwap(false, true) {
		logger.Debug("Stream %s cancelled", s.id)
	}
	s.cancel()
}

// Done is closed when the session's reader goroutine has exited
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether the session will deliver no further callbacks
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Text returns the concatenation of every fragment received so far
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received.String()
}

// Fragments returns how many fragments have been received
func (s *Session) Fragments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragments
}

func (s *Session) token(t string) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	s.received.WriteString(t)
	s.fragments++
	s.mu.Unlock()

	s.handler.OnToken(t)
}

func (s *Session) malformed(err error) {
	if s.closed.Load() {
		return
	}
	s.handler.OnError(malformedError(err))
}

func (s *Session) complete() {
	if !s.finish() {
		return
	}
	s.handler.OnComplete()
}

func (s *Session) fail(err error) {
	if !s.finish() {
		return
	}
	logger.Warn("Stream %s failed: %v", s.id, err)
	s.handler.OnError(transportError(err, s.Text()))
}

// finish claims the single terminal delivery and closes the session
func (s *Session) finish() bool {
	if s.closed.Load() || !s.finished.CompareAndSwap(false, true) {
		return false
	}
	s.closed.Store(true)
	return true
}
