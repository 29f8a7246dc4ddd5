// Package atomicparsley wraps AtomicParsley for stamping iTunes-style tags
// onto the finished MP4.
package atomicparsley

import (
	"context"
	"path/filepath"
	"strings"

	"recut/internal/fileutil"
	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// Capabilities reports which optional atom handlers the installed
// AtomicParsley build supports.
type Capabilities struct {
	// ContentRating is the --contentRating reverse-DNS atom.
	ContentRating bool
	// Credits is the --rDNSatom handler used for the iTunMOVI plist.
	Credits bool
}

// Client invokes AtomicParsley through a toolexec executor.
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

// New creates an AtomicParsley client.
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "AtomicParsley"
	}
	client := &Client{binary: binary, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Apply runs AtomicParsley on the MP4 with the given tag arguments,
// overwriting in place, then sweeps the temp files AtomicParsley leaves
// behind when interrupted.
func (c *Client) Apply(ctx context.Context, mp4 string, args []string) error {
	if len(args) == 0 {
		return nil
	}
	full := append([]string{mp4}, args...)
	full = append(full, "--overWrite")
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   full,
		OnLine: c.onLine,
	})
	sweepErr := c.sweepTempFiles(mp4)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "atomicparsley", "apply tags", err)
	}
	return sweepErr
}

// sweepTempFiles removes the <base>-temp-*.mp4 files AtomicParsley writes
// while rebuilding the container.
func (c *Client) sweepTempFiles(mp4 string) error {
	base := strings.TrimSuffix(mp4, filepath.Ext(mp4))
	return fileutil.RemoveGlob(base + "-temp-*" + filepath.Ext(mp4))
}

// Probe checks the binary is present and which reverse-DNS atom handlers
// it offers. Absence of the binary returns ok=false; tagging then degrades
// to a logged warning rather than a failure.
func (c *Client) Probe(ctx context.Context) (Capabilities, bool) {
	if _, ok := toolexec.Version(ctx, c.exec, c.binary, []string{"--help"}, `(AtomicParsley)`); !ok {
		return Capabilities{}, false
	}
	caps := Capabilities{}
	if _, ok := toolexec.Version(ctx, c.exec, c.binary, []string{"--reverseDNS-help"}, `(--contentRating)`); ok {
		caps.ContentRating = true
	}
	if _, ok := toolexec.Version(ctx, c.exec, c.binary, []string{"--reverseDNS-help"}, `(--rDNSatom)`); ok {
		caps.Credits = true
	}
	return caps, true
}
