package headless

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/madchat/pkg/controllers"
)

// RunHeadless asks one question, writes the streamed answer to out and
// notices to errOut. It returns an error when no complete answer arrived.
func RunHeadless(ctx context.Context, opener controllers.Opener, prompt string, out, errOut io.Writer, opts ...controllers.Option) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}

	r := newRunner(opener, out, errOut, opts...)
	if err := r.run(ctx, prompt); err != nil {
		return fmt.Errorf("failed to execute prompt: %w", err)
	}
	return nil
}
