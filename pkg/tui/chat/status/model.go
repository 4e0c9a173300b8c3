package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/process"
	"github.com/killallgit/madchat/pkg/tui/theme"
)

// StatusModel represents the status bar component
type StatusModel struct {
	spinner      spinner.Model
	status       string
	processState process.State
	icon         string
	timer        time.Duration
	startTime    time.Time
	received     int
	fragments    int
	isActive     bool
	width        int
}

// NewStatusModel creates a new status bar model
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorViolet)

	return StatusModel{
		spinner: s,
	}
}

// Active reports whether a request is being tracked
func (m StatusModel) Active() bool {
	return m.isActive
}

// State returns the tracked process state
func (m StatusModel) State() process.State {
	return m.processState
}
