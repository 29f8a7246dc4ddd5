package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"recut/internal/language"
	"recut/internal/services"
)

var resolutionRE = regexp.MustCompile(`^(\d+)x(\d+)$`)

// Validate ensures the configuration is usable. All complaints are gathered
// so a broken config file surfaces every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if _, err := language.ISO6392(c.Language); err != nil {
		problems = append(problems, fmt.Sprintf("language: unknown two-letter code %q", c.Language))
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		problems = append(problems, "paths.library_dir must be set")
	}
	if c.Segments.ThreshSeconds < 0 {
		problems = append(problems, fmt.Sprintf("segments.thresh_seconds must not be negative (got %v)", c.Segments.ThreshSeconds))
	}

	switch c.Video.Container {
	case "mp4", "mkv":
	default:
		problems = append(problems, fmt.Sprintf("video.container must be mp4 or mkv (got %q)", c.Video.Container))
	}
	switch c.Video.Flavor {
	case "", "ipod", "webm":
	default:
		problems = append(problems, fmt.Sprintf("video.flavor must be empty, ipod, or webm (got %q)", c.Video.Flavor))
	}
	switch c.Video.Codec {
	case "h264", "vp8":
	default:
		problems = append(problems, fmt.Sprintf("video.codec must be h264 or vp8 (got %q)", c.Video.Codec))
	}
	if c.Video.CRF < 0 || c.Video.CRF > 63 {
		problems = append(problems, fmt.Sprintf("video.crf out of range (got %d)", c.Video.CRF))
	}
	if c.Video.TwoPass && c.Video.BitrateK <= 0 {
		problems = append(problems, "video.bitrate_kbps must be positive for two-pass encoding")
	}
	if c.Video.Resolution != "" && !resolutionRE.MatchString(c.Video.Resolution) {
		problems = append(problems, fmt.Sprintf("video.resolution must look like 1280x720 (got %q)", c.Video.Resolution))
	}

	switch c.Audio.Encoder {
	case "nero", "aac", "vorbis", "flac":
	default:
		problems = append(problems, fmt.Sprintf("audio.encoder must be nero, aac, vorbis, or flac (got %q)", c.Audio.Encoder))
	}
	if c.Audio.Encoder != "nero" && c.Audio.Encoder != "flac" && c.Audio.BitrateK <= 0 {
		problems = append(problems, "audio.bitrate_kbps must be positive")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json (got %q)", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", services.ErrConfiguration, strings.Join(problems, "; "))
}

// TargetResolution parses video.resolution into width and height. The
// boolean reports whether a target resolution is configured.
func (c *Config) TargetResolution() (int, int, bool) {
	match := resolutionRE.FindStringSubmatch(c.Video.Resolution)
	if match == nil {
		return 0, 0, false
	}
	var width, height int
	if _, err := fmt.Sscanf(c.Video.Resolution, "%dx%d", &width, &height); err != nil {
		return 0, 0, false
	}
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// IsConfigurationError reports whether err came from config validation.
func IsConfigurationError(err error) bool {
	return errors.Is(err, services.ErrConfiguration)
}
