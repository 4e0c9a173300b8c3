package stream

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// DefaultMaxEventSize bounds the data of a single event
const DefaultMaxEventSize = 1 << 20

// ErrEventTooLarge is returned when an event exceeds the reader's limit
var ErrEventTooLarge = fmt.Errorf("event exceeds maximum size")

// lineOverhead leaves room for the field name, separator and line ending
const lineOverhead = 64

// Event is one dispatched server-sent event
type Event struct {
	Type string
	ID   string
	Data []byte
}

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader  *bufio.Reader
	maxSize int
}

// NewSSEReader creates a new SSE reader from an io.Reader. A maxSize of zero
// or less selects DefaultMaxEventSize.
func NewSSEReader(r io.Reader, maxSize int) *SSEReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxEventSize
	}
	return &SSEReader{
		reader:  bufio.NewReader(r),
		maxSize: maxSize,
	}
}

// ReadEvent reads the next event that carries data. Multi-line data is
// joined with "\n". Returns io.EOF when the stream ends without a further
// event.
func (s *SSEReader) ReadEvent() (Event, error) {
	var event Event
	var data bytes.Buffer
	hasData := false

	for {
		line, err := s.readLine(s.maxSize - data.Len() + lineOverhead)
		if err != nil && (err != io.EOF || len(line) == 0) {
			if err == io.EOF && hasData {
				event.Data = data.Bytes()
				return event, nil
			}
			return Event{}, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Blank line dispatches the event
		if len(line) == 0 {
			if hasData {
				event.Data = data.Bytes()
				return event, nil
			}
			event = Event{}
			continue
		}

		if line[0] == ':' {
			continue
		}

		field, value := line, []byte(nil)
		if i := bytes.IndexByte(line, ':'); i >= 0 {
			field, value = line[:i], line[i+1:]
			value = bytes.TrimPrefix(value, []byte(" "))
		}

		switch string(field) {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.Write(value)
			hasData = true
			if data.Len() > s.maxSize {
				return Event{}, fmt.Errorf("%w (%d bytes)", ErrEventTooLarge, s.maxSize)
			}
		case "event":
			event.Type = string(value)
		case "id":
			event.ID = string(value)
		}
		// retry and unknown fields are ignored

		if err == io.EOF {
			if hasData {
				event.Data = data.Bytes()
				return event, nil
			}
			return Event{}, io.EOF
		}
	}
}

// readLine reads up to and including the next newline. It fails as soon as
// the line grows past limit, so an unterminated line cannot be buffered
// without bound.
func (s *SSEReader) readLine(limit int) ([]byte, error) {
	var line []byte
	for {
		chunk, err := s.reader.ReadSlice('\n')
		if len(line)+len(chunk) > limit {
			return nil, fmt.Errorf("%w (%d bytes)", ErrEventTooLarge, s.maxSize)
		}
		line = append(line, chunk...)
		if err != bufio.ErrBufferFull {
			return line, err
		}
	}
}
