package logging_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/logging"
	"recut/internal/services"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recut.log")
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("joined segments", logging.Int("segments", 3), logging.String("output", "join.ts"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO") || !strings.Contains(line, "joined segments") {
		t.Fatalf("unexpected log line %q", line)
	}
	if !strings.Contains(line, "segments=3") || !strings.Contains(line, "output=join.ts") {
		t.Fatalf("missing attributes in %q", line)
	}
}

func TestNewConsolePullsComponentForward(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recut.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "planner").Info("planned")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "planner: planned") {
		t.Fatalf("expected component prefix, got %q", string(data))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recut.log")
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("info line should be filtered: %q", string(data))
	}
	if !strings.Contains(string(data), "visible") {
		t.Fatalf("warn line missing: %q", string(data))
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := services.WithStage(context.Background(), "split")
	ctx = services.WithRecording(ctx, "rec-7")

	fields := logging.ContextFields(ctx)
	keys := make(map[string]string, len(fields))
	for _, f := range fields {
		keys[f.Key] = f.Value.String()
	}
	if keys[logging.FieldStage] != "split" {
		t.Fatalf("stage field = %q", keys[logging.FieldStage])
	}
	if keys[logging.FieldRecording] != "rec-7" {
		t.Fatalf("recording field = %q", keys[logging.FieldRecording])
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled at every level")
	}
}
