package headless

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/logger"
)

// runner asks a single question and streams the answer
type runner struct {
	controller *controllers.Controller
	handler    *headlessStreamHandler
	output     *Output
}

func newRunner(opener controllers.Opener, out, errOut io.Writer, opts ...controllers.Option) *runner {
	handler := newHeadlessStreamHandler(out)
	opts = append([]controllers.Option{controllers.WithObserver(handler.onSnapshot)}, opts...)
	return &runner{
		controller: controllers.NewController(opener, opts...),
		handler:    handler,
		output:     NewOutput(errOut),
	}
}

// run executes a single prompt in headless mode
func (r *runner) run(ctx context.Context, prompt string) error {
	if err := r.controller.Submit(ctx, prompt); err != nil {
		if errors.Is(err, controllers.ErrEmptySubmission) {
			return fmt.Errorf("prompt cannot be empty in headless mode")
		}
		return err
	}

	if err := r.controller.Wait(ctx); err != nil {
		r.controller.Cancel()
		r.handler.abort()
		return err
	}

	snapshot := r.controller.Snapshot()
	if snapshot.Err != nil {
		r.handler.abort()
		logger.Error("Headless answer failed: %v", snapshot.Err)
		r.output.Error(fmt.Sprintf("Generation error: %v", snapshot.Err))
		return snapshot.Err
	}

	answer := snapshot.Exchanges[len(snapshot.Exchanges)-1]
	r.handler.finish(answer.Text)
	logger.Debug("Response complete (%d chars)", len(answer.Text))
	return nil
}
