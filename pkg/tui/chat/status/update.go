package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m StatusModel) Init() tea.Cmd {
	return nil
}

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.isActive {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartStreamingMsg:
		wasActive := m.isActive
		m.isActive = true
		m.startTime = time.Now()
		m.timer = 0
		m.received = 0
		m.fragments = 0
		m.processState = msg.State
		m.icon = msg.State.GetIcon()
		m.status = msg.State.GetDisplayName()
		if wasActive {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, tickEvery())

	case SetProcessStateMsg:
		m.processState = msg.State
		m.icon = msg.State.GetIcon()
		m.status = msg.State.GetDisplayName()
		return m, nil

	case UpdateReceivedMsg:
		m.received = msg.Chars
		m.fragments = msg.Fragments
		return m, nil

	case StopStreamingMsg:
		m.isActive = false
		m.status = ""
		m.icon = ""
		m.timer = 0
		m.received = 0
		m.fragments = 0
		return m, nil

	case TickMsg:
		if m.isActive {
			m.timer = time.Since(m.startTime)
			return m, tickEvery()
		}
		return m, nil
	}

	return m, nil
}

// tickEvery returns a command that sends a tick message every second
func tickEvery() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
