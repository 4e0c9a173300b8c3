package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if m.Waiting() {
			return m, m.cancelCmd()
		}
		m.notice = ""
		m.updateViewportContent()
		return m, nil
	}

	// Input is disabled while an answer is in flight
	if m.Waiting() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		question := m.textarea.Value()
		if strings.TrimSpace(question) == "" {
			return m, nil
		}
		m.textarea.Reset()
		m.resizeInput()
		m.viewport.GotoBottom()
		return m, m.submitCmd(question)

	case key.Matches(msg, m.keys.ClearInput):
		m.textarea.Reset()
		m.resizeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.resizeInput()
	return m, cmd
}
