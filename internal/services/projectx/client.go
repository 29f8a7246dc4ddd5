// Package projectx wraps the Project-X demultiplexer, a Java tool that
// cleans transport-stream capture noise and splits the joined recording
// into elementary video and audio files.
package projectx

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// Client invokes Project-X through the java runtime.
type Client struct {
	java   string
	jar    string
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

// New creates a Project-X client for the given java binary and jar path.
func New(java, jar string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(java) == "" {
		java = "java"
	}
	jar = strings.TrimSpace(jar)
	if jar == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "projectx", "jar path required", nil)
	}
	client := &Client{java: java, jar: jar, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Demux runs `-demux` on input, writing elementary streams and the log
// under outDir with the given base name. The demux log lands at
// <outDir>/<name>_log.txt.
func (c *Client) Demux(ctx context.Context, input, outDir, name string) error {
	if _, err := os.Stat(c.jar); err != nil {
		return services.Wrap(services.ErrConfiguration, "", "projectx", "jar not found at "+c.jar, err)
	}
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.java,
		Args:   []string{"-jar", c.jar, "-out", outDir, "-name", name, "-demux", input},
		OnLine: c.onLine,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "projectx", "demux "+filepath.Base(input), err)
	}
	return nil
}
