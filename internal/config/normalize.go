package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVideo()
	c.normalizeAudio()
	c.normalizeMetadata()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeEpisodes()
	if err := c.normalizeProfiles(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.MinFreeGB < 0 {
		c.Paths.MinFreeGB = 0
	}
	return nil
}

func (c *Config) normalizeVideo() {
	c.Video.Container = strings.ToLower(strings.TrimSpace(c.Video.Container))
	if c.Video.Container == "" {
		c.Video.Container = defaultContainer
	}
	c.Video.Flavor = strings.ToLower(strings.TrimSpace(c.Video.Flavor))
	c.Video.Codec = strings.ToLower(strings.TrimSpace(c.Video.Codec))
	if c.Video.Codec == "" {
		c.Video.Codec = defaultVideoCodec
	}
	// The WebM flavor implies both the Matroska container and VP8; the
	// iPod flavor implies MP4 and H.264.
	switch c.Video.Flavor {
	case "webm":
		c.Video.Container = "mkv"
		c.Video.Codec = "vp8"
	case "ipod":
		c.Video.Container = "mp4"
		c.Video.Codec = "h264"
	}
	c.Video.Preset = strings.TrimSpace(c.Video.Preset)
	c.Video.Resolution = strings.ToLower(strings.TrimSpace(c.Video.Resolution))
}

func (c *Config) normalizeAudio() {
	c.Audio.Encoder = strings.ToLower(strings.TrimSpace(c.Audio.Encoder))
	if c.Audio.Encoder == "" {
		c.Audio.Encoder = defaultAudioEncoder
	}
	// VP8 output pairs with Vorbis audio; the original tool makes the
	// same substitution silently.
	if c.Video.Codec == "vp8" && (c.Audio.Encoder == "aac" || c.Audio.Encoder == "nero") {
		c.Audio.Encoder = "vorbis"
	}
	if c.Audio.Quality <= 0 {
		c.Audio.Quality = defaultAudioQuality
	}
}

func (c *Config) normalizeMetadata() {
	if strings.TrimSpace(c.Metadata.Format) == "" {
		c.Metadata.Format = defaultMetadataFormat
	}
	if c.Metadata.ReplaceChar == "" {
		c.Metadata.ReplaceChar = defaultReplaceChar
	}
}

func (c *Config) normalizeCatalog() error {
	var err error
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEpisodes() {
	c.Episodes.BaseURL = strings.TrimRight(strings.TrimSpace(c.Episodes.BaseURL), "/")
	if c.Episodes.BaseURL == "" {
		c.Episodes.BaseURL = defaultEpisodesBaseURL
	}
	c.Episodes.APIKey = strings.TrimSpace(c.Episodes.APIKey)
	if c.Episodes.APIKey == "" {
		if value, ok := os.LookupEnv("RECUT_EPISODES_API_KEY"); ok {
			c.Episodes.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Episodes.TimeoutSeconds <= 0 {
		c.Episodes.TimeoutSeconds = defaultEpisodesTimeout
	}
}

func (c *Config) normalizeProfiles() error {
	var err error
	c.Profiles.Active = strings.TrimSpace(c.Profiles.Active)
	c.Profiles.Path = strings.TrimSpace(c.Profiles.Path)
	if c.Profiles.Path == "" {
		return nil
	}
	if c.Profiles.Path, err = expandPath(c.Profiles.Path); err != nil {
		return fmt.Errorf("profiles.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	trim := func(value, fallback string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			return fallback
		}
		return value
	}
	c.Tools.FFmpeg = trim(c.Tools.FFmpeg, "ffmpeg")
	c.Tools.FFprobe = trim(c.Tools.FFprobe, "ffprobe")
	c.Tools.Java = trim(c.Tools.Java, "java")
	c.Tools.CCExtractor = trim(c.Tools.CCExtractor, "ccextractor")
	c.Tools.MP4Box = trim(c.Tools.MP4Box, "MP4Box")
	c.Tools.MKVMerge = trim(c.Tools.MKVMerge, "mkvmerge")
	c.Tools.NeroAacEnc = trim(c.Tools.NeroAacEnc, "neroAacEnc")
	c.Tools.AtomicParsley = trim(c.Tools.AtomicParsley, "AtomicParsley")
	c.Tools.ProjectXJar = trim(c.Tools.ProjectXJar, defaultProjectXJar)
	if c.Tools.ProjectXJar, err = expandPath(c.Tools.ProjectXJar); err != nil {
		return fmt.Errorf("tools.projectx_jar: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
