package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/stream"
	"github.com/killallgit/madchat/pkg/testutil"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGreeting = "Hi, I'm the Mäd AI assistant. How can I help?"

type harness struct {
	t          *testing.T
	opener     *testutil.FakeOpener
	controller *controllers.Controller
	model      Model
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	// ASCII color profile for stable output
	lipgloss.SetColorProfile(termenv.Ascii)

	opener := testutil.NewFakeOpener()
	controller := controllers.NewController(opener, controllers.WithGreeting(testGreeting))
	h := &harness{
		t:          t,
		opener:     opener,
		controller: controller,
		model:      NewModel(context.Background(), controller, opts...),
	}
	h.update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	return cmd
}

func (h *harness) typeText(text string) {
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// sync delivers the controller's current state the way the observer would
func (h *harness) sync() {
	h.update(SnapshotMsg{Snapshot: h.controller.Snapshot()})
}

// run executes a command and feeds its message back into the model
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	h.update(cmd())
	h.sync()
}

func TestInitialView(t *testing.T) {
	h := newHarness(t)

	view := h.model.View()
	assert.Contains(t, view, testGreeting)
	assert.Contains(t, view, placeholderReady)
	assert.Contains(t, view, "enter send")
	assert.False(t, h.model.Waiting())
}

func TestSubmitFlow(t *testing.T) {
	h := newHarness(t)

	h.typeText("What is X?")
	assert.Equal(t, "What is X?", h.model.Input())

	cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, h.model.Input())
	h.run(cmd)

	assert.True(t, h.model.Waiting())
	assert.Equal(t, placeholderWaiting, h.model.textarea.Placeholder)
	assert.False(t, h.model.textarea.Focused())
	assert.Contains(t, h.model.View(), "What is X?")
	assert.Contains(t, h.model.View(), "esc cancel")

	session := h.opener.Last()
	require.NotNil(t, session)
	assert.Equal(t, "What is X?", session.Question)

	session.Tokens("X", " is", " Y.")
	h.sync()
	assert.Contains(t, h.model.View(), "X is Y."+pendingCursor)
	assert.Contains(t, h.model.View(), "7 chars in 3 fragments")

	session.Complete()
	h.sync()
	assert.False(t, h.model.Waiting())
	assert.Equal(t, placeholderReady, h.model.textarea.Placeholder)
	assert.True(t, h.model.textarea.Focused())
	view := h.model.View()
	assert.Contains(t, view, "X is Y.")
	assert.NotContains(t, view, pendingCursor)
}

func TestBlankSubmitIsSwallowed(t *testing.T) {
	h := newHarness(t)

	h.typeText("   ")
	cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "   ", h.model.Input())
	assert.Empty(t, h.opener.Sessions())
}

func TestInputIgnoredWhileWaiting(t *testing.T) {
	h := newHarness(t)
	h.typeText("Q")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))

	h.typeText("more")
	cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, h.model.Input())
	assert.Len(t, h.opener.Sessions(), 1)
}

func TestAltEnterInsertsNewline(t *testing.T) {
	h := newHarness(t)

	h.typeText("line one")
	h.update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	h.typeText("line two")

	assert.Empty(t, h.opener.Sessions())
	assert.Equal(t, "line one\nline two", h.model.Input())
	assert.Equal(t, 2, h.model.textarea.Height())
}

func TestCancelWhileWaiting(t *testing.T) {
	h := newHarness(t)
	h.typeText("Q")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))
	session := h.opener.Last()
	session.Tokens("partial")
	h.sync()

	h.run(h.update(tea.KeyMsg{Type: tea.KeyEsc}))

	assert.True(t, session.Cancelled())
	assert.False(t, h.model.Waiting())
	view := h.model.View()
	assert.Contains(t, view, "Response cancelled.")
	assert.NotContains(t, view, "partial")
}

func TestFailureShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.typeText("Q")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))

	h.opener.Last().Fail(&stream.Error{Kind: stream.KindTransport, Err: errors.New("connection refused")})
	h.sync()

	assert.False(t, h.model.Waiting())
	view := h.model.View()
	assert.Contains(t, view, "Something went wrong")
	assert.Contains(t, view, "connection refused")

	// A new submission clears the notice
	h.typeText("Q2")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.NotContains(t, h.model.View(), "Something went wrong")
}

func TestFailureShownWhenAwaitingSnapshotArrivesLate(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var mu sync.Mutex
	var observed []controllers.Snapshot
	opener := testutil.NewFakeOpener()
	controller := controllers.NewController(opener,
		controllers.WithGreeting(testGreeting),
		controllers.WithObserver(func(s controllers.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			observed = append(observed, s)
		}))
	h := &harness{t: t, opener: opener, controller: controller, model: NewModel(context.Background(), controller)}
	h.update(tea.WindowSizeMsg{Width: 100, Height: 30})

	h.typeText("Q")
	cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	h.update(cmd())
	h.opener.Last().Fail(&stream.Error{Kind: stream.KindTransport, Err: errors.New("connection refused")})

	mu.Lock()
	require.Len(t, observed, 2)
	awaiting, failed := observed[0], observed[1]
	mu.Unlock()
	require.True(t, awaiting.Waiting())
	require.False(t, failed.Waiting())

	// The failure overtakes the awaiting snapshot on its way to the program
	h.update(SnapshotMsg{Snapshot: failed})
	h.update(SnapshotMsg{Snapshot: awaiting})

	assert.False(t, h.model.Waiting())
	assert.True(t, h.model.textarea.Focused())
	view := h.model.View()
	assert.Contains(t, view, "Something went wrong")
	assert.Contains(t, view, "connection refused")
}

func TestFailureNoticeShownOncePerSubmission(t *testing.T) {
	h := newHarness(t)
	h.typeText("Q")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))
	h.opener.Last().Fail(&stream.Error{Kind: stream.KindTransport, Err: errors.New("connection refused")})
	h.sync()
	require.Contains(t, h.model.View(), "Something went wrong")

	// Esc dismisses the notice; a repeated snapshot of the same turn keeps it dismissed
	h.update(tea.KeyMsg{Type: tea.KeyEsc})
	h.sync()
	assert.NotContains(t, h.model.View(), "Something went wrong")
}

func TestStaleSnapshotIsDropped(t *testing.T) {
	h := newHarness(t)
	h.typeText("Q")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))
	stale := h.controller.Snapshot()

	h.opener.Last().Tokens("A")
	h.opener.Last().Complete()
	h.sync()
	require.False(t, h.model.Waiting())

	h.update(SnapshotMsg{Snapshot: stale})
	assert.False(t, h.model.Waiting())
}

func TestMaxInputLength(t *testing.T) {
	h := newHarness(t, WithMaxInputLength(5))

	h.typeText("abcdefgh")

	assert.Equal(t, "abcde", h.model.Input())
}

func TestQuit(t *testing.T) {
	h := newHarness(t)

	cmd := h.update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestCalculateTextAreaHeight(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 1},
		{"single line", "hello", 1},
		{"two lines", "a\nb", 2},
		{"wide characters wrap", strings.Repeat("語", 60), 2},
		{"capped", strings.Repeat("x\n", 20), maxTextAreaHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.model.textarea.SetValue(tt.input)
			assert.Equal(t, tt.want, h.model.calculateTextAreaHeight())
		})
	}
}
