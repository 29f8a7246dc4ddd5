// Package mkvmerge wraps mkvmerge for assembling the final Matroska
// container in a single invocation.
package mkvmerge

import (
	"context"
	"strings"

	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// Job describes everything mkvmerge folds into one output file. Empty
// optional paths skip their track or attachment.
type Job struct {
	Output string
	Video  string
	Audio  string
	// Subtitles is the resynchronized SRT track; empty skips it.
	Subtitles string
	// Chapters is a Matroska simple-chapters file; empty skips it.
	Chapters string
	// GlobalTags is a Matroska tags XML document; empty skips it.
	GlobalTags string
	// DefaultLanguage is the three-letter code stamped on the tracks.
	DefaultLanguage string
	// WebM restricts the output to the WebM subset.
	WebM bool
}

// trackArgs is prepended to every input file so only the wanted track kind
// is pulled from it: no chapters, buttons, track tags, attachments, or
// global tags ride along from intermediate files.
func trackArgs() []string {
	return []string{"--no-chapters", "-B", "-T", "-M", "--no-global-tags"}
}

// Args assembles the full mkvmerge argument list for the job.
func Args(job Job) []string {
	var args []string
	if job.DefaultLanguage != "" {
		args = append(args, "--default-language", job.DefaultLanguage)
	}
	args = append(args, trackArgs()...)
	args = append(args, "-A", "-S", "--track-name", "0:Video", job.Video)
	args = append(args, trackArgs()...)
	args = append(args, "-D", "-S", "--track-name", "0:Audio", job.Audio)
	if job.Subtitles != "" {
		args = append(args, trackArgs()...)
		args = append(args, "-A", "-D", "--track-name", "0:Subtitles", job.Subtitles)
	}
	if job.Chapters != "" {
		args = append(args, "--chapters", job.Chapters)
	}
	if job.GlobalTags != "" {
		args = append(args, "--global-tags", job.GlobalTags)
	}
	if job.WebM {
		args = append(args, "--webm")
	}
	return append(args, "-o", job.Output)
}

// Client invokes mkvmerge through a toolexec executor.
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

// New creates an mkvmerge client.
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "mkvmerge"
	}
	client := &Client{binary: binary, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Mux runs the assembled job. Exit status 1 is a warning in mkvmerge's
// contract and still produces a usable file.
func (c *Client) Mux(ctx context.Context, job Job) error {
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   Args(job),
		OkExit: []int{1},
		OnLine: c.onLine,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "mkvmerge", "mux "+job.Output, err)
	}
	return nil
}
