// Package mp4box wraps MP4Box for assembling the final MPEG-4 container.
package mp4box

import (
	"context"
	"strings"

	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// Client invokes MP4Box through a toolexec executor. Every invocation gets
// a -tmp directory so MP4Box's interleaving scratch files stay inside the
// run workspace.
type Client struct {
	binary string
	tmpDir string
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

// New creates an MP4Box client scratching into tmpDir.
func New(binary, tmpDir string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "MP4Box"
	}
	client := &Client{binary: binary, tmpDir: tmpDir, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) run(ctx context.Context, op string, args []string) error {
	full := []string{"-tmp", c.tmpDir}
	full = append(full, args...)
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   full,
		OnLine: c.onLine,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "mp4box", op, err)
	}
	return nil
}

// Create builds a fresh MP4 from the encoded video and audio streams.
func (c *Client) Create(ctx context.Context, video, audio, output string) error {
	return c.run(ctx, "create container", []string{
		"-new",
		"-add", video + "#video:name=Video",
		"-add", audio + "#audio:name=Audio",
		output,
	})
}

// Hint adds ISMA hint tracks for streaming players.
func (c *Client) Hint(ctx context.Context, output string) error {
	return c.run(ctx, "hint", []string{"-isma", "-hint", output})
}

// AddSubtitles embeds the SRT track with the bottom-of-frame layout iOS
// players expect.
func (c *Client) AddSubtitles(ctx context.Context, srt, output string) error {
	return c.run(ctx, "add subtitles", []string{
		"-add", srt + ":name=Subtitles:layout=0x125x0x-1",
		output,
	})
}

// AddChapters embeds a GPAC TTXT chapter file. Old MP4Box releases lack
// chapter support; that failure is reported so the caller can continue
// without chapters rather than abort the remux.
func (c *Client) AddChapters(ctx context.Context, chapters, output string) error {
	return c.run(ctx, "add chapters", []string{"-add", chapters + ":chap", output})
}

// SetLanguage stamps the container's media language.
func (c *Client) SetLanguage(ctx context.Context, language, output string) error {
	return c.run(ctx, "set language", []string{"-lang", language, output})
}
