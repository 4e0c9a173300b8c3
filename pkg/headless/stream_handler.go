package headless

import (
	"fmt"
	"io"
	"sync"

	"github.com/killallgit/madchat/pkg/controllers"
)

// headlessStreamHandler prints answer text to out as snapshots arrive and
// remembers how much was written
type headlessStreamHandler struct {
	out     io.Writer
	mu      sync.Mutex
	printed int
	done    bool
}

func newHeadlessStreamHandler(out io.Writer) *headlessStreamHandler {
	return &headlessStreamHandler{out: out}
}

// onSnapshot is registered as the controller observer
func (h *headlessStreamHandler) onSnapshot(s controllers.Snapshot) {
	if !s.Waiting() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.done && len(s.Pending) > h.printed {
		fmt.Fprint(h.out, s.Pending[h.printed:])
		h.printed = len(s.Pending)
	}
}

// finish writes the rest of the committed answer and stops further printing
func (h *headlessStreamHandler) finish(answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = true
	if len(answer) > h.printed {
		fmt.Fprint(h.out, answer[h.printed:])
		h.printed = len(answer)
	}
	fmt.Fprintln(h.out)
}

// abort stops further printing after a failure
func (h *headlessStreamHandler) abort() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = true
	if h.printed > 0 {
		fmt.Fprintln(h.out)
	}
}
