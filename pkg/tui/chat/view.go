package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	inputStyle := m.styles.InputFocused
	if m.Waiting() {
		inputStyle = m.styles.InputDisabled
	}

	sections := []string{
		m.viewport.View(),
		inputStyle.Render(m.textarea.View()),
	}
	if bar := m.statusBar.View(); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpView() string {
	var parts []string
	for _, binding := range m.keys.helpLine(m.Waiting()) {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}
