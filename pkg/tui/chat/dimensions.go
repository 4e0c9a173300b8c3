package chat

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const maxTextAreaHeight = 10

// calculateTextAreaHeight determines the visual height of the textarea
// based on its content and wrapping
func (m *Model) calculateTextAreaHeight() int {
	content := m.textarea.Value()
	if content == "" {
		return 1
	}

	textWidth := m.textarea.Width()
	if textWidth <= 0 {
		textWidth = m.width - 4
		if textWidth <= 0 {
			textWidth = 80
		}
	}

	totalVisualLines := 0
	for _, line := range strings.Split(content, "\n") {
		lineWidth := runewidth.StringWidth(line)
		visualLines := (lineWidth + textWidth - 1) / textWidth
		if visualLines < 1 {
			visualLines = 1
		}
		totalVisualLines += visualLines
	}

	if totalVisualLines > maxTextAreaHeight {
		return maxTextAreaHeight
	}
	return totalVisualLines
}

// chromeHeight is everything below the viewport except the textarea body:
// input border (2), status bar (1), help line (1)
const chromeHeight = 4

// updateViewportHeight adjusts the viewport height based on textarea size
func (m *Model) updateViewportHeight() {
	if m.height > 0 {
		height := m.height - m.calculateTextAreaHeight() - chromeHeight
		if height < 1 {
			height = 1
		}
		m.viewport.Height = height
	}
}

// handleWindowResize updates all dimensions when window size changes
func (m *Model) handleWindowResize(width, height int) {
	m.width = width
	m.height = height

	// Border and prompt padding
	m.textarea.SetWidth(width - 4)
	m.textarea.SetHeight(m.calculateTextAreaHeight())

	m.viewport.Width = width
	m.updateViewportHeight()
	m.updateViewportContent()
}

// resizeInput recalculates heights after the input text changed
func (m *Model) resizeInput() {
	newHeight := m.calculateTextAreaHeight()
	if m.textarea.Height() != newHeight {
		m.textarea.SetHeight(newHeight)
		m.updateViewportHeight()
	}
}
