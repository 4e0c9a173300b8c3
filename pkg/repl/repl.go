package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/chat"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/killallgit/madchat/pkg/tui/theme"
)

const prompt = "you> "

// REPL is the line-mode chat: one question per line, answers streamed to out
type REPL struct {
	controller *controllers.Controller
	reader     LineReader
	out        io.Writer
	styles     *theme.Styles

	mu        sync.Mutex
	streaming bool
	printed   int
}

func New(opener controllers.Opener, reader LineReader, out io.Writer, controllerOpts ...controllers.Option) *REPL {
	r := &REPL{
		reader: reader,
		out:    out,
		styles: theme.DefaultStyles(),
	}
	controllerOpts = append([]controllers.Option{controllers.WithObserver(r.onSnapshot)}, controllerOpts...)
	r.controller = controllers.NewController(opener, controllerOpts...)
	return r
}

// Controller exposes the controller behind the prompt
func (r *REPL) Controller() *controllers.Controller {
	return r.controller
}

// onSnapshot prints answer text as it arrives. Snapshots can arrive out of
// order, so only text beyond what was already printed is written.
func (r *REPL) onSnapshot(s controllers.Snapshot) {
	if !s.Waiting() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.streaming && len(s.Pending) > r.printed {
		fmt.Fprint(r.out, s.Pending[r.printed:])
		r.printed = len(s.Pending)
	}
}

// Run prompts until the user quits, input ends or ctx is done
func (r *REPL) Run(ctx context.Context) error {
	defer r.reader.Close()

	snapshot := r.controller.Snapshot()
	for _, exchange := range snapshot.Exchanges {
		r.printExchange(exchange)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := r.reader.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrAborted) {
				fmt.Fprintln(r.out)
				return nil
			}
			logger.Error("Failed to read input: %v", err)
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}
		r.reader.AppendHistory(line)

		if err := r.ask(ctx, line); err != nil {
			return err
		}
	}
}

// ask submits one question and blocks until its answer is finished.
// Ctrl+C while waiting cancels the answer instead of the program.
func (r *REPL) ask(ctx context.Context, question string) error {
	r.mu.Lock()
	r.printed = 0
	r.streaming = true
	fmt.Fprintln(r.out, r.styles.AssistantLabel.Render("Assistant:"))
	r.mu.Unlock()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	if err := r.controller.Submit(ctx, question); err != nil {
		r.mu.Lock()
		r.streaming = false
		r.mu.Unlock()
		r.printNotice(err)
		return nil
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-interrupts:
			r.controller.Cancel()
		case <-waitCtx.Done():
		}
	}()

	if err := r.controller.Wait(ctx); err != nil {
		r.controller.Cancel()
		r.mu.Lock()
		r.streaming = false
		r.mu.Unlock()
		return nil
	}

	r.finish()
	return nil
}

// finish stops streamed printing and writes whatever of the committed
// answer has not been printed yet
func (r *REPL) finish() {
	snapshot := r.controller.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.streaming = false

	if snapshot.Err != nil {
		if r.printed > 0 {
			fmt.Fprintln(r.out)
		}
		r.printNotice(snapshot.Err)
		return
	}

	if n := len(snapshot.Exchanges); n > 0 {
		answer := snapshot.Exchanges[n-1]
		if answer.IsAssistant() && len(answer.Text) > r.printed {
			fmt.Fprint(r.out, answer.Text[r.printed:])
		}
	}
	fmt.Fprint(r.out, "\n\n")
}

func (r *REPL) printExchange(exchange chat.Exchange) {
	label := r.styles.UserLabel.Render("You:")
	if exchange.IsAssistant() {
		label = r.styles.AssistantLabel.Render("Assistant:")
	}
	fmt.Fprintf(r.out, "%s\n%s\n\n", label, exchange.Text)
}

func (r *REPL) printNotice(err error) {
	var style lipgloss.Style
	var text string
	switch {
	case errors.Is(err, controllers.ErrEmptySubmission):
		return
	case errors.Is(err, controllers.ErrCancelled):
		style, text = r.styles.InfoMessage, "Response cancelled."
	case errors.Is(err, controllers.ErrInputTooLong):
		style, text = r.styles.InfoMessage, err.Error()
	default:
		logger.Debug("Showing error notice: %v", err)
		style, text = r.styles.ErrorMessage, fmt.Sprintf("Something went wrong: %v. Please try again.", err)
	}
	fmt.Fprintln(r.out, style.Render(text))
	fmt.Fprintln(r.out)
}
