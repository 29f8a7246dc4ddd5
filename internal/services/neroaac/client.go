// Package neroaac wraps the neroAacEnc encoder, used when its AAC quality
// mode is preferred over ffmpeg's built-in encoder.
package neroaac

import (
	"context"
	"fmt"
	"strings"

	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// Client invokes neroAacEnc through a toolexec executor.
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

// New creates a neroAacEnc client.
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "neroAacEnc"
	}
	client := &Client{binary: binary, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Encode transcodes a PCM WAV file to AAC at the given quality ratio.
func (c *Client) Encode(ctx context.Context, wav, aac string, quality float64) error {
	if quality <= 0 || quality > 1 {
		return fmt.Errorf("%w: nero quality %v must be in (0, 1]", services.ErrConfiguration, quality)
	}
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   []string{"-q", fmt.Sprintf("%g", quality), "-if", wav, "-of", aac},
		OnLine: c.onLine,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "neroaacenc", "encode audio", err)
	}
	return nil
}
