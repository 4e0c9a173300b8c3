package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/tui/chat/status"
	"github.com/killallgit/madchat/pkg/tui/theme"
)

const (
	placeholderReady   = "Type your question..."
	placeholderWaiting = "Waiting for response..."
)

// Controller is the part of the submission controller the view drives
type Controller interface {
	Submit(ctx context.Context, raw string) error
	Cancel() bool
	Snapshot() controllers.Snapshot
}

// Model is the bubbletea model of the chat screen
type Model struct {
	ctx        context.Context
	controller Controller

	viewport  viewport.Model
	textarea  textarea.Model
	statusBar status.StatusModel
	keys      keyMap
	styles    *theme.Styles

	snapshot      controllers.Snapshot
	notice        string
	noticeIsError bool
	noticeTurn    uint64 // submission whose failure is already shown
	width         int
	height        int
}

// Option configures a Model
type Option func(*Model)

// WithMaxInputLength limits how many characters can be typed
func WithMaxInputLength(n int) Option {
	return func(m *Model) {
		m.textarea.CharLimit = n
	}
}

func WithStyles(styles *theme.Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

func NewModel(ctx context.Context, controller Controller, opts ...Option) Model {
	ta := textarea.New()
	ta.Focus()
	ta.Placeholder = placeholderReady
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	vp := viewport.New(80, 20)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	m := Model{
		ctx:        ctx,
		controller: controller,
		viewport:   vp,
		textarea:   ta,
		statusBar:  status.NewStatusModel(),
		keys:       defaultKeyMap(),
		styles:     theme.DefaultStyles(),
		snapshot:   controller.Snapshot(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.textarea.FocusedStyle.Placeholder = m.styles.InputPlaceholder
	m.textarea.BlurredStyle.Placeholder = m.styles.InputPlaceholder
	m.updateViewportContent()
	return m
}

// Snapshot returns the last snapshot the model rendered
func (m Model) Snapshot() controllers.Snapshot {
	return m.snapshot
}

// Input returns the current text of the input area
func (m Model) Input() string {
	return m.textarea.Value()
}

// Waiting reports whether input is disabled for an answer in flight
func (m Model) Waiting() bool {
	return m.snapshot.Waiting()
}
