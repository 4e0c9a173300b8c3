package chat

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/killallgit/madchat/pkg/process"
	"github.com/killallgit/madchat/pkg/tui/chat/status"
)

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		m.statusBar, _ = m.statusBar.Update(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case SnapshotMsg:
		return m.applySnapshot(msg.Snapshot)

	case submitResultMsg:
		m.handleSubmitResult(msg.err)
		return m, nil

	case cancelResultMsg:
		if !msg.cancelled {
			logger.Debug("Cancel requested with nothing in flight")
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		cmds = append(cmds, cmd)

		// Cursor blink and similar
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applySnapshot renders a controller snapshot. Snapshots may arrive out of
// order from stream goroutines, so older versions are dropped and the view is
// derived from the snapshot itself rather than from the previous one.
func (m Model) applySnapshot(s controllers.Snapshot) (tea.Model, tea.Cmd) {
	if s.Version < m.snapshot.Version {
		return m, nil
	}

	if s.Turn > m.snapshot.Turn {
		m.notice = ""
	}
	m.snapshot = s
	state := process.FromSnapshot(s)

	var cmds []tea.Cmd
	if s.Waiting() {
		m.textarea.Blur()
		m.textarea.Placeholder = placeholderWaiting
		if !m.statusBar.Active() {
			var cmd tea.Cmd
			m.statusBar, cmd = m.statusBar.Update(status.StartStreamingMsg{State: state})
			cmds = append(cmds, cmd)
		} else {
			m.statusBar, _ = m.statusBar.Update(status.SetProcessStateMsg{State: state})
		}
		m.statusBar, _ = m.statusBar.Update(status.UpdateReceivedMsg{
			Chars:     utf8.RuneCountInString(s.Pending),
			Fragments: s.Fragments,
		})
	} else {
		if m.statusBar.Active() {
			m.statusBar, _ = m.statusBar.Update(status.StopStreamingMsg{})
		}
		m.textarea.Placeholder = placeholderReady
		if !m.textarea.Focused() {
			cmds = append(cmds, m.textarea.Focus())
		}
		if s.Err != nil && s.Turn != m.noticeTurn {
			m.setNoticeFromError(s.Err)
			m.noticeTurn = s.Turn
		}
	}

	m.updateViewportContent()
	return m, tea.Batch(cmds...)
}

func (m *Model) setNoticeFromError(err error) {
	switch {
	case err == nil:
		m.notice = ""
	case errors.Is(err, controllers.ErrCancelled):
		m.notice = "Response cancelled."
		m.noticeIsError = false
	default:
		m.notice = fmt.Sprintf("Something went wrong: %v. Please try again.", err)
		m.noticeIsError = true
	}
}

func (m *Model) handleSubmitResult(err error) {
	switch {
	case err == nil, errors.Is(err, controllers.ErrEmptySubmission):
	case errors.Is(err, controllers.ErrBusy):
		m.notice = "Still waiting for the previous answer."
		m.noticeIsError = false
	default:
		m.notice = err.Error()
		m.noticeIsError = true
	}
	m.updateViewportContent()
}

// submitCmd runs Submit off the event loop; the controller's observer sends
// snapshots back through the program.
func (m Model) submitCmd(question string) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		return submitResultMsg{err: controller.Submit(ctx, question)}
	}
}

func (m Model) cancelCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return cancelResultMsg{cancelled: controller.Cancel()}
	}
}
