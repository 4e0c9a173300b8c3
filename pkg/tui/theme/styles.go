package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Warm earth-tone palette
var (
	// Base colors (backgrounds and text)
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase03 = lipgloss.Color("#5c5044") // Muted text
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground

	// Accent colors
	ColorRed    = lipgloss.Color("#d95f5f")
	ColorOrange = lipgloss.Color("#eb8755")
	ColorYellow = lipgloss.Color("#f5b761")
	ColorGreen  = lipgloss.Color("#93b56b")
	ColorCyan   = lipgloss.Color("#61afaf")
	ColorBlue   = lipgloss.Color("#6b93b5")
	ColorViolet = lipgloss.Color("#6c71c4")

	// UI specific colors
	ColorFocus   = ColorOrange
	ColorWarning = ColorYellow
	ColorError   = ColorRed
	ColorInfo    = ColorCyan
	ColorMuted   = ColorBase03
)

// Styles defines the Lipgloss styles for the TUI components
type Styles struct {
	// Transcript
	UserMessage      lipgloss.Style
	WaitingMessage   lipgloss.Style
	AssistantMessage lipgloss.Style
	PendingMessage   lipgloss.Style
	ErrorMessage     lipgloss.Style
	InfoMessage      lipgloss.Style

	// Speaker labels
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	// Input
	InputFocused     lipgloss.Style
	InputDisabled    lipgloss.Style
	InputPlaceholder lipgloss.Style

	Help lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	return &Styles{
		UserMessage: lipgloss.NewStyle().
			Foreground(ColorGreen),

		// The question an answer is being streamed for
		WaitingMessage: lipgloss.NewStyle().
			Foreground(ColorYellow).
			Italic(true),

		AssistantMessage: lipgloss.NewStyle().
			Foreground(ColorBlue),

		PendingMessage: lipgloss.NewStyle().
			Foreground(ColorBase05),

		ErrorMessage: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		InfoMessage: lipgloss.NewStyle().
			Foreground(ColorInfo),

		UserLabel: lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus),

		InputDisabled: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted),

		InputPlaceholder: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Help: lipgloss.NewStyle().
			Foreground(ColorBase04),
	}
}
