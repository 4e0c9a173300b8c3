package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/killallgit/madchat/pkg/stream"
)

// AnswerServer is an httptest server that streams canned answers as
// server-sent events, one response per request in order.
type AnswerServer struct {
	*httptest.Server

	mu           sync.Mutex
	responses    []string
	callCount    int
	requests     []stream.Request
	chunkDelay   time.Duration // Delay between chunks
	chunkSize    int           // Characters per chunk
	failAfter    int           // Drop the connection after N chunks (0 = no failure)
	status       int
	errorMessage string
}

// NewAnswerServer starts a server answering with the given responses
func NewAnswerServer(responses ...string) *AnswerServer {
	s := &AnswerServer{
		responses: responses,
		chunkSize: 5,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// URL of the chat endpoint
func (s *AnswerServer) Endpoint() string {
	return s.Server.URL + "/api/chat"
}

// SetChunkDelay sets the delay between chunks
func (s *AnswerServer) SetChunkDelay(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunkDelay = delay
}

// SetChunkSize sets the number of characters per chunk
func (s *AnswerServer) SetChunkSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunkSize = size
}

// SetFailAfter ends the stream without the sentinel after N chunks
func (s *AnswerServer) SetFailAfter(chunks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = chunks
}

// SetStatus makes every request fail with the given status and message
func (s *AnswerServer) SetStatus(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.errorMessage = message
}

// Requests returns the decoded bodies received so far
func (s *AnswerServer) Requests() []stream.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stream.Request(nil), s.requests...)
}

func (s *AnswerServer) serve(w http.ResponseWriter, r *http.Request) {
	var req stream.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	response := ""
	if len(s.responses) > 0 {
		response = s.responses[s.callCount%len(s.responses)]
	}
	s.callCount++
	chunkSize, chunkDelay, failAfter := s.chunkSize, s.chunkDelay, s.failAfter
	status, errorMessage := s.status, s.errorMessage
	s.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		body, _ := json.Marshal(map[string]string{"error": errorMessage})
		w.Write(body)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	send := func(data string) {
		fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}

	if chunkSize <= 0 {
		chunkSize = len(response)
	}
	runes := []rune(response)
	chunkCount := 0
	for i := 0; i < len(runes); i += chunkSize {
		chunkCount++
		if failAfter > 0 && chunkCount > failAfter {
			return
		}

		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if chunkDelay > 0 {
			select {
			case <-time.After(chunkDelay):
			case <-r.Context().Done():
				return
			}
		}

		payload, _ := json.Marshal(map[string]string{"data": string(runes[i:end])})
		send(string(payload))
	}

	send(stream.DefaultSentinel)
}
