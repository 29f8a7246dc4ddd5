package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	WorkDir    string `toml:"work_dir"`
	LogDir     string `toml:"log_dir"`
	MinFreeGB  int    `toml:"min_free_gb"`
}

// Segments contains segment planning configuration.
type Segments struct {
	// ThreshSeconds discards candidate segments shorter than this at the
	// recording edges, absorbing rounding noise at program boundaries.
	ThreshSeconds float64 `toml:"thresh_seconds"`
}

// Video contains configuration for the video encode and container.
type Video struct {
	Container  string `toml:"container"` // mp4 or mkv
	Flavor     string `toml:"flavor"`    // "", ipod, or webm
	Codec      string `toml:"codec"`     // h264 or vp8
	Preset     string `toml:"preset"`
	CRF        int    `toml:"crf"`
	BitrateK   int    `toml:"bitrate_kbps"`
	TwoPass    bool   `toml:"two_pass"`
	Resolution string `toml:"resolution"` // WIDTHxHEIGHT, empty keeps source
}

// Audio contains configuration for the audio encode.
type Audio struct {
	Encoder  string  `toml:"encoder"` // nero, aac, vorbis, or flac
	BitrateK int     `toml:"bitrate_kbps"`
	Quality  float64 `toml:"quality"` // neroAacEnc quality ratio
}

// Subtitles contains closed-caption extraction configuration.
type Subtitles struct {
	Enabled bool `toml:"enabled"`
}

// Metadata contains configuration for tagging and library naming.
type Metadata struct {
	Enabled                bool   `toml:"enabled"`
	Format                 string `toml:"format"`
	ReplaceChar            string `toml:"replace_char"`
	FoldASCII              bool   `toml:"fold_ascii"`
	UseEpisodeRating       bool   `toml:"use_episode_rating"`
	UseEpisodeDescriptions bool   `toml:"use_episode_descriptions"`
}

// Catalog contains configuration for the recording catalog database.
type Catalog struct {
	Path string `toml:"path"`
}

// Episodes contains configuration for the episode-database lookup service.
type Episodes struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Profiles contains configuration for encode profile overlays.
type Profiles struct {
	Path   string `toml:"path"`
	Active string `toml:"active"`
}

// Tools contains the external binary locations. Empty values fall back to
// PATH lookup under the conventional names.
type Tools struct {
	FFmpeg        string `toml:"ffmpeg"`
	FFprobe       string `toml:"ffprobe"`
	Java          string `toml:"java"`
	ProjectXJar   string `toml:"projectx_jar"`
	CCExtractor   string `toml:"ccextractor"`
	MP4Box        string `toml:"mp4box"`
	MKVMerge      string `toml:"mkvmerge"`
	NeroAacEnc    string `toml:"neroaacenc"`
	AtomicParsley string `toml:"atomicparsley"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for recut.
//
// Configuration sections by subsystem:
//   - Language: preferred audio language (two-letter code)
//   - Paths: library, work, and log directories plus free-space floor
//   - Segments: segment planning threshold
//   - Video / Audio: encode parameters and container choice
//   - Subtitles: closed-caption extraction toggle
//   - Metadata: tagging and library naming
//   - Catalog: recording catalog database location
//   - Episodes: episode-database lookup service
//   - Profiles: named encode parameter overlays
//   - Tools: external binary locations
//   - Logging: log format and level
type Config struct {
	Language  string    `toml:"language"`
	KeepWork  bool      `toml:"keep_work"`
	Paths     Paths     `toml:"paths"`
	Segments  Segments  `toml:"segments"`
	Video     Video     `toml:"video"`
	Audio     Audio     `toml:"audio"`
	Subtitles Subtitles `toml:"subtitles"`
	Metadata  Metadata  `toml:"metadata"`
	Catalog   Catalog   `toml:"catalog"`
	Episodes  Episodes  `toml:"episodes"`
	Profiles  Profiles  `toml:"profiles"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/recut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work and log directories. LibraryDir is
// created on a best-effort basis so planning commands still run when the
// library storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
