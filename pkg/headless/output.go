package headless

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/killallgit/madchat/pkg/tui/theme"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output writes notices for headless mode, styled only on a terminal
type Output struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	styles   *theme.Styles
}

// NewOutput creates an output handler for w
func NewOutput(w io.Writer) *Output {
	renderer := lipgloss.NewRenderer(w)
	if !isTerminal(w) {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Output{
		w:        w,
		renderer: renderer,
		styles:   theme.DefaultStyles(),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Error prints a failure notice and records it in the log
func (o *Output) Error(msg string) {
	logger.Warn("Headless error: %s", msg)
	fmt.Fprintln(o.w, o.styles.ErrorMessage.Renderer(o.renderer).Render(msg))
}

// Info prints an informational notice
func (o *Output) Info(msg string) {
	fmt.Fprintln(o.w, o.styles.InfoMessage.Renderer(o.renderer).Render(msg))
}
