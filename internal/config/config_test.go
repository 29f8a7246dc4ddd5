package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/config"
	"recut/internal/services"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.WorkDir != filepath.Join(tempHome, ".local", "share", "recut", "work") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "library") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.Language != "en" {
		t.Fatalf("unexpected default language: %q", cfg.Language)
	}
	if cfg.Segments.ThreshSeconds != 5.0 {
		t.Fatalf("unexpected default threshold: %v", cfg.Segments.ThreshSeconds)
	}
	if cfg.Video.Container != "mp4" || cfg.Video.Codec != "h264" {
		t.Fatalf("unexpected video defaults: %+v", cfg.Video)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recut.toml")
	content := strings.Join([]string{
		`language = "de"`,
		`[paths]`,
		`library_dir = "` + filepath.Join(dir, "lib") + `"`,
		`work_dir = "` + filepath.Join(dir, "work") + `"`,
		`[video]`,
		`container = "mkv"`,
		`codec = "vp8"`,
		`[audio]`,
		`encoder = "aac"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Language != "de" {
		t.Fatalf("unexpected language: %q", cfg.Language)
	}
	// AAC audio with a VP8 video codec is silently swapped to Vorbis.
	if cfg.Audio.Encoder != "vorbis" {
		t.Fatalf("expected vorbis audio for vp8 video, got %q", cfg.Audio.Encoder)
	}
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recut.toml")
	if err := os.WriteFile(path, []byte(`language = "zz"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for unknown language code")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := config.Default()
	cfg.Video.Container = "avi"
	cfg.Video.Codec = "mpeg2"
	cfg.Segments.ThreshSeconds = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"video.container", "video.codec", "segments.thresh_seconds"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err.Error(), want)
		}
	}
}

func TestFlavorImpliesContainerAndCodec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recut.toml")
	if err := os.WriteFile(path, []byte("[video]\nflavor = \"webm\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Video.Container != "mkv" || cfg.Video.Codec != "vp8" {
		t.Fatalf("webm flavor did not pin container/codec: %+v", cfg.Video)
	}
}

func TestTargetResolution(t *testing.T) {
	cfg := config.Default()
	if _, _, ok := cfg.TargetResolution(); ok {
		t.Fatal("expected no target resolution by default")
	}
	cfg.Video.Resolution = "1280x720"
	width, height, ok := cfg.TargetResolution()
	if !ok || width != 1280 || height != 720 {
		t.Fatalf("unexpected resolution: %dx%d ok=%v", width, height, ok)
	}
}

func TestTwoPassRequiresBitrate(t *testing.T) {
	cfg := config.Default()
	cfg.Video.TwoPass = true
	cfg.Video.BitrateK = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for two-pass without bitrate")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Video.Container != "mp4" {
		t.Fatalf("sample config altered defaults: %+v", cfg.Video)
	}
}
