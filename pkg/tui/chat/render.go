package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/chat"
)

const pendingCursor = "▍"

func (m Model) renderTranscript() string {
	availableWidth := m.viewport.Width
	if availableWidth <= 0 {
		availableWidth = 80
	}

	var rendered []string
	for i, exchange := range m.snapshot.Exchanges {
		var label string
		var style lipgloss.Style

		switch exchange.Role {
		case chat.RoleUser:
			label = m.styles.UserLabel.Render("You")
			style = m.styles.UserMessage
			if m.snapshot.Waiting() && i == m.snapshot.LastUser {
				style = m.styles.WaitingMessage
			}
		default:
			label = m.styles.AssistantLabel.Render("Assistant")
			style = m.styles.AssistantMessage
		}

		rendered = append(rendered, label+"\n"+style.Width(availableWidth).Render(exchange.Text))
	}

	if m.snapshot.HasPending {
		label := m.styles.AssistantLabel.Render("Assistant")
		body := m.styles.PendingMessage.Width(availableWidth).Render(m.snapshot.Pending + pendingCursor)
		rendered = append(rendered, label+"\n"+body)
	}

	if m.notice != "" {
		style := m.styles.InfoMessage
		if m.noticeIsError {
			style = m.styles.ErrorMessage
		}
		rendered = append(rendered, style.Width(availableWidth).Render(m.notice))
	}

	return strings.Join(rendered, "\n\n")
}

// updateViewportContent re-renders the transcript and follows the newest text
func (m *Model) updateViewportContent() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
