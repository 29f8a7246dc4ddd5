// Package ffmpeg wraps the ffmpeg binary for the stream-copy and encode
// steps of the pipeline.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"recut/internal/services"
	"recut/internal/services/toolexec"
)

// Client invokes ffmpeg through a toolexec executor.
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

// New creates an ffmpeg client for the given binary.
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	client := &Client{binary: binary, exec: toolexec.NewCommandExecutor()}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) run(ctx context.Context, dir string, args []string) error {
	err := c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   args,
		Dir:    dir,
		OnLine: c.onLine,
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "ffmpeg", strings.Join(args, " "), err)
	}
	return nil
}

// copyArgs are the stream-copy arguments shared by extraction and joining:
// every video and audio stream is carried over untouched in an MPEG-TS
// container so cut points stay frame-exact for the demultiplexer.
func copyArgs() []string {
	return []string{"-map", "0:v", "-map", "0:a", "-c", "copy", "-f", "mpegts"}
}

// ExtractSegment stream-copies the span [start, start+length) of src into dst.
func (c *Client) ExtractSegment(ctx context.Context, src, dst string, start, length float64) error {
	if length <= 0 {
		return fmt.Errorf("%w: segment length %v must be positive", services.ErrValidation, length)
	}
	args := []string{"-y", "-i", src, "-ss", formatSeconds(start), "-t", formatSeconds(length)}
	args = append(args, copyArgs()...)
	args = append(args, dst)
	return c.run(ctx, "", args)
}

// Join concatenates the segment files into dst with the concat: protocol,
// stream-copying so the splice points carry no re-encode artifacts. Every
// segment must exist before the join starts.
func (c *Client) Join(ctx context.Context, segments []string, dst string) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: no segments to join", services.ErrValidation)
	}
	for _, segment := range segments {
		if _, err := os.Stat(segment); err != nil {
			return services.Wrap(services.ErrResolution, "", "join", "missing segment "+segment, err)
		}
	}
	args := []string{"-y", "-i", "concat:" + strings.Join(segments, "|")}
	args = append(args, copyArgs()...)
	args = append(args, dst)
	return c.run(ctx, "", args)
}

// DecodeWAV decodes the audio elementary stream to PCM for an external
// AAC encoder.
func (c *Client) DecodeWAV(ctx context.Context, src, dst string) error {
	return c.run(ctx, "", []string{
		"-y", "-i", src, "-vn", "-acodec", "pcm_s16le", "-f", "wav", dst,
	})
}

// AudioJob describes one in-process audio encode.
type AudioJob struct {
	Input    string
	Output   string
	Encoder  string // aac, vorbis, or flac
	BitrateK int
}

// EncodeAudio transcodes the audio elementary stream with ffmpeg's own
// encoders. FLAC ignores the bitrate.
func (c *Client) EncodeAudio(ctx context.Context, job AudioJob) error {
	codec, format, err := audioCodec(job.Encoder)
	if err != nil {
		return err
	}
	args := []string{"-y", "-i", job.Input, "-vn", "-acodec", codec}
	if job.Encoder != "flac" {
		args = append(args, "-b:a", fmt.Sprintf("%dk", job.BitrateK))
	}
	args = append(args, "-f", format, job.Output)
	return c.run(ctx, "", args)
}

func audioCodec(encoder string) (codec, format string, err error) {
	switch encoder {
	case "aac":
		return "aac", "adts", nil
	case "vorbis":
		return "libvorbis", "ogg", nil
	case "flac":
		return "flac", "flac", nil
	default:
		return "", "", fmt.Errorf("%w: audio encoder %q is not an ffmpeg encode", services.ErrConfiguration, encoder)
	}
}

// VideoJob describes one video encode.
type VideoJob struct {
	Input  string
	Output string
	Codec  string // h264 or vp8
	Flavor string // "", ipod, or webm
	Preset string
	CRF    int
	// BitrateK and TwoPass select two-pass bitrate encoding; otherwise a
	// one-pass CRF encode runs.
	BitrateK int
	TwoPass  bool
	// PassLogDir is the working directory for two-pass state files.
	PassLogDir string
	// SizeArgs carries the resolution/pad arguments from FitResolution.
	SizeArgs []string
}

// EncodeVideo transcodes the video elementary stream. Two-pass encodes run
// ffmpeg twice with a shared pass log, first pass discarded to /dev/null.
func (c *Client) EncodeVideo(ctx context.Context, job VideoJob) error {
	codec, format, err := videoCodec(job.Codec, job.Flavor)
	if err != nil {
		return err
	}

	common := []string{"-y", "-i", job.Input, "-vcodec", codec, "-an", "-threads", "0", "-f", format}
	if job.Preset != "" {
		common = append(common, "-preset", job.Preset)
	}
	common = append(common, job.SizeArgs...)

	if job.TwoPass {
		common = append(common, "-b:v", fmt.Sprintf("%dk", job.BitrateK))
		first := append(append([]string{}, common...), "-pass", "1", os.DevNull)
		if err := c.run(ctx, job.PassLogDir, first); err != nil {
			return err
		}
		second := append(append([]string{}, common...), "-pass", "2", job.Output)
		return c.run(ctx, job.PassLogDir, second)
	}

	args := append(append([]string{}, common...), "-crf", fmt.Sprintf("%d", job.CRF), job.Output)
	return c.run(ctx, "", args)
}

func videoCodec(codec, flavor string) (name, format string, err error) {
	switch {
	case flavor == "ipod":
		return "libx264", "ipod", nil
	case flavor == "webm":
		return "libvpx", "webm", nil
	case codec == "vp8":
		return "libvpx", "matroska", nil
	case codec == "h264":
		return "libx264", "mp4", nil
	default:
		return "", "", fmt.Errorf("%w: video codec %q is not supported", services.ErrConfiguration, codec)
	}
}

// EncoderName reports the ffmpeg encoder a codec/flavor pair selects.
func EncoderName(codec, flavor string) (string, error) {
	name, _, err := videoCodec(codec, flavor)
	return name, err
}

// SupportsEncoder scrapes `ffmpeg -codecs` for an enabled encoder.
func (c *Client) SupportsEncoder(ctx context.Context, encoder string) bool {
	found := false
	_ = c.exec.Run(ctx, toolexec.Command{
		Binary: c.binary,
		Args:   []string{"-codecs"},
		// The banner exits nonzero on some builds; only the scrape matters.
		OkExit: []int{1},
		OnLine: func(line string) {
			if strings.Contains(line, encoder) {
				found = true
			}
		},
	})
	return found
}

// Version returns the ffmpeg version banner line.
func (c *Client) Version(ctx context.Context) (string, bool) {
	return toolexec.Version(ctx, c.exec, c.binary, []string{"-version"}, `([Ff]+mpeg[^,]*)`)
}

func formatSeconds(value float64) string {
	// Trailing zeros trimmed so logs read like the cutlist values.
	s := fmt.Sprintf("%.3f", value)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
