package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single elementary stream in the media container.
type Stream struct {
	Index        int         `json:"index"`
	ID           string      `json:"id"`
	CodecName    string      `json:"codec_name"`
	CodecType    string      `json:"codec_type"`
	Profile      string      `json:"profile"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	AvgFrameRate string      `json:"avg_frame_rate"`
	RFrameRate   string      `json:"r_frame_rate"`
	SampleRate   string      `json:"sample_rate"`
	Channels     int         `json:"channels"`
	Duration     string      `json:"duration"`
	Tags         Tags        `json:"tags"`
	Disposition  Disposition `json:"disposition"`
}

// Tags carries the per-stream metadata tags recut consumes.
type Tags struct {
	Language string `json:"language"`
}

// Disposition carries the per-stream disposition flags recut consumes.
type Disposition struct {
	Default int `json:"default"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return Parse(output)
}

// Parse decodes a raw ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), payload...)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStreams returns the video streams in probe order.
func (r Result) VideoStreams() []Stream {
	return r.streamsOfType("video")
}

// AudioStreams returns the audio streams in probe order.
func (r Result) AudioStreams() []Stream {
	return r.streamsOfType("audio")
}

func (r Result) streamsOfType(kind string) []Stream {
	var out []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			out = append(out, stream)
		}
	}
	return out
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return len(r.VideoStreams())
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return len(r.AudioStreams())
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	d := parseFloat(r.Format.Duration)
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

// SizeBytes returns the container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size, err := strconv.ParseInt(strings.TrimSpace(r.Format.Size), 10, 64)
	if err != nil || size < 0 {
		return 0
	}
	return size
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate, err := strconv.ParseInt(strings.TrimSpace(r.Format.BitRate), 10, 64)
	if err != nil || rate < 0 {
		return 0
	}
	return rate
}

// Resolution returns the dimensions of the first video stream, or zeros.
func (r Result) Resolution() (int, int) {
	for _, stream := range r.VideoStreams() {
		if stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height
		}
	}
	return 0, 0
}

// FrameRate returns the average frame rate of the first video stream, or 0.
func (r Result) FrameRate() float64 {
	for _, stream := range r.VideoStreams() {
		if fps := stream.FrameRate(); fps > 0 {
			return fps
		}
	}
	return 0
}

// PID decodes the container stream identifier (a hex string such as "0x1e1")
// into its numeric value. Returns 0 and false when the field is absent or
// malformed.
func (s Stream) PID() (int, bool) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return 0, false
	}
	id = strings.TrimPrefix(strings.ToLower(id), "0x")
	value, err := strconv.ParseInt(id, 16, 32)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

// Language returns the normalized language tag of the stream, if any.
func (s Stream) Language() string {
	return strings.ToLower(strings.TrimSpace(s.Tags.Language))
}

// FrameRate parses the stream frame-rate fractions, preferring the average.
func (s Stream) FrameRate() float64 {
	if fps := parseRate(s.AvgFrameRate); fps > 0 {
		return fps
	}
	return parseRate(s.RFrameRate)
}

func parseRate(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if num, den, ok := strings.Cut(value, "/"); ok {
		n := parseFloat(num)
		d := parseFloat(den)
		if math.IsNaN(n) || math.IsNaN(d) || d == 0 {
			return 0
		}
		return n / d
	}
	f := parseFloat(value)
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return f
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
