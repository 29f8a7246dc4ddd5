// Package ccextractor wraps the ccextractor closed-caption extractor.
package ccextractor

import (
	"context"
	"strings"

	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// okExitStatus is ccextractor's "captions written" status; it reserves
// zero for runs that found no caption data at all.
const okExitStatus = 232

// Client invokes ccextractor through a toolexec executor.
type Client struct {
	binary string
	exec   toolexec.Executor
	onLine func(string)
}

// Option configures a Client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLineHandler forwards tool output lines, typically into the debug log.
func WithLineHandler(fn func(string)) Option {
	return func(c *Client) { c.onLine = fn }
}

// New creates a ccextractor client.
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "ccextractor"
	}
	client := &Client{binary: binary, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Extract pulls EIA-608 captions from the joined recording into an SRT
// file. The extracted timing follows the joined timeline and still needs
// resynchronization against the plan markers.
func (c *Client) Extract(ctx context.Context, input, srt string) error {
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   []string{"-o", srt, "-utf8", "-ve", "--no_progress_bar", input},
		OkExit: []int{okExitStatus},
		OnLine: c.onLine,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "ccextractor", "extract captions", err)
	}
	return nil
}
