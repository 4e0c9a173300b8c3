package tui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/killallgit/madchat/pkg/tui/chat"
)

// relay forwards controller snapshots into a running program
type relay struct {
	program atomic.Pointer[tea.Program]
}

func (r *relay) send(s controllers.Snapshot) {
	if p := r.program.Load(); p != nil {
		p.Send(chat.SnapshotMsg{Snapshot: s})
	}
}

// App is the full-screen chat program
type App struct {
	controller *controllers.Controller
	program    *tea.Program
}

// Options configures the full-screen program
type Options struct {
	MaxInputLength int
	AltScreen      bool
	ProgramOptions []tea.ProgramOption
}

// NewApp wires a controller to a bubbletea program. Controller options are
// applied after the observer that feeds the program.
func NewApp(ctx context.Context, opener controllers.Opener, opts Options, controllerOpts ...controllers.Option) *App {
	r := &relay{}
	controllerOpts = append([]controllers.Option{controllers.WithObserver(r.send)}, controllerOpts...)
	controller := controllers.NewController(opener, controllerOpts...)

	model := chat.NewModel(ctx, controller, chat.WithMaxInputLength(opts.MaxInputLength))

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	programOpts = append(programOpts, opts.ProgramOptions...)

	program := tea.NewProgram(model, programOpts...)
	r.program.Store(program)

	return &App{
		controller: controller,
		program:    program,
	}
}

// Controller exposes the controller driving the program
func (a *App) Controller() *controllers.Controller {
	return a.controller
}

// Run blocks until the user quits. Any answer still in flight is cancelled.
func (a *App) Run() error {
	logger.Info("Starting chat TUI")
	_, err := a.program.Run()
	if a.controller.Cancel() {
		logger.Info("Cancelled in-flight answer on exit")
	}
	if err != nil {
		logger.Error("Chat TUI stopped: %v", err)
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}
	return nil
}
