package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"recut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.MinFreeGB = 0
	cfgVal.Catalog.Path = filepath.Join(base, "catalog.db")
	cfgVal.Tools.FFmpeg = "ffmpeg"
	cfgVal.Tools.FFprobe = "ffprobe"
	cfgVal.Tools.Java = "java"
	cfgVal.Tools.ProjectXJar = filepath.Join(base, "ProjectX.jar")
	cfgVal.Tools.CCExtractor = "ccextractor"
	cfgVal.Tools.MP4Box = "MP4Box"
	cfgVal.Tools.MKVMerge = "mkvmerge"
	cfgVal.Tools.NeroAacEnc = "neroAacEnc"
	cfgVal.Tools.AtomicParsley = "AtomicParsley"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.LibraryDir, cfgVal.Paths.WorkDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(cfgVal.Tools.ProjectXJar, []byte("jar"), 0o644); err != nil {
		t.Fatalf("write jar placeholder: %v", err)
	}

	return builder.cfg
}

// WithContainer sets the output container on the test config.
func WithContainer(container string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Video.Container = container
	}
}

// WithAudioEncoder sets the audio encoder on the test config.
func WithAudioEncoder(encoder string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audio.Encoder = encoder
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default recut external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "java", "ccextractor", "MP4Box", "mkvmerge", "neroAacEnc", "AtomicParsley"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
