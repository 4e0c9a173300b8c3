package repl

import (
	"os"
	"strings"

	"github.com/killallgit/madchat/pkg/config"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/peterh/liner"
)

// ErrAborted is returned by Prompt when the user presses Ctrl+C
var ErrAborted = liner.ErrPromptAborted

// LineReader reads one line of input at a time
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linerReader is a LineReader with arrow-key history backed by liner
type linerReader struct {
	line        *liner.State
	historyFile string
}

// NewLinerReader creates a terminal line reader whose input history is kept
// in the settings directory
func NewLinerReader() LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	r := &linerReader{
		line:        line,
		historyFile: config.BuildSettingsPath("input_history"),
	}
	r.loadHistory()
	return r
}

func (r *linerReader) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		if _, err := r.line.ReadHistory(f); err != nil {
			logger.Warn("Failed to read input history: %v", err)
		}
		f.Close()
	}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.line.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	if strings.TrimSpace(line) != "" {
		r.line.AppendHistory(line)
	}
}

// Close saves history and restores the terminal
func (r *linerReader) Close() error {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		if _, err := r.line.WriteHistory(f); err != nil {
			logger.Warn("Failed to write input history: %v", err)
		}
		f.Close()
	}
	return r.line.Close()
}
