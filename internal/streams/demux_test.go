package streams_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/services"
	"recut/internal/streams"
)

func demuxSelection() streams.Selection {
	return streams.Selection{
		Video: []streams.Descriptor{{PID: 0x1e1, Enabled: true}},
		Audio: []streams.Descriptor{
			{PID: 0x1e4},
			{PID: 0x1e5, Enabled: true},
		},
	}
}

const demuxLog = `ProjectX 0.91.0
-> session start
Video: PID 0x1E1
Audio: PID 0x1E4
Audio: PID 0x1E5
-> video basics: 1280*720 @ 59.94fps
-> starting export of video data @ GOP# 0
.Video (V) exported to 'rec-demux[0].m2v'
Audio 1 MPEG-1 Layer2, 48000Hz -> 'rec-demux[0].mp2'
Audio 2 AC-3, 48000Hz 384kbps -> 'rec-demux[1].ac3'
-> session end
`

func TestParseDemuxLogOrdinalCorrelation(t *testing.T) {
	out, err := streams.ParseDemuxLog(strings.NewReader(demuxLog), demuxSelection())
	if err != nil {
		t.Fatalf("ParseDemuxLog returned error: %v", err)
	}
	if out.VideoPath != "rec-demux[0].m2v" {
		t.Fatalf("unexpected video path: %q", out.VideoPath)
	}
	if out.AudioPath != "rec-demux[1].ac3" {
		t.Fatalf("expected second audio file, got %q", out.AudioPath)
	}
	want := []string{"rec-demux[0].m2v", "rec-demux[0].mp2", "rec-demux[1].ac3"}
	if len(out.All) != len(want) {
		t.Fatalf("expected %d collected files, got %v", len(want), out.All)
	}
	for i := range want {
		if out.All[i] != want[i] {
			t.Fatalf("collected file %d = %q, want %q", i, out.All[i], want[i])
		}
	}
}

func TestParseDemuxLogCountsFileLinesWithoutPaths(t *testing.T) {
	// The first audio file line carries no quoted path but still consumes
	// the ordinal, so a target of 2 must match the following line.
	log := `Video: PID 0x1E1
Audio: PID 0x1E4
Audio: PID 0x1E5
.Video (V) exported to 'rec-demux[0].m2v'
Audio 1 MPEG-1 Layer2, 48000Hz
Audio 2 AC-3 -> 'rec-demux[1].ac3'
`
	out, err := streams.ParseDemuxLog(strings.NewReader(log), demuxSelection())
	if err != nil {
		t.Fatalf("ParseDemuxLog returned error: %v", err)
	}
	if out.AudioPath != "rec-demux[1].ac3" {
		t.Fatalf("unexpected audio path: %q", out.AudioPath)
	}
}

func TestParseDemuxLogNoTargetLeavesPathsEmpty(t *testing.T) {
	sel := streams.Selection{
		Video: []streams.Descriptor{{PID: 0x999, Enabled: true}},
		Audio: []streams.Descriptor{{PID: 0x998, Enabled: true}},
	}
	out, err := streams.ParseDemuxLog(strings.NewReader(demuxLog), sel)
	if err != nil {
		t.Fatalf("ParseDemuxLog returned error: %v", err)
	}
	if out.VideoPath != "" || out.AudioPath != "" {
		t.Fatalf("expected no resolution for unannounced PIDs, got %q / %q", out.VideoPath, out.AudioPath)
	}
}

func TestResolveOutputs(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "rec-demux[0].m2v")
	audioPath := filepath.Join(dir, "rec-demux[1].ac3")
	for _, path := range []string{videoPath, filepath.Join(dir, "rec-demux[0].mp2"), audioPath} {
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatalf("seed demux output: %v", err)
		}
	}

	log := fmt.Sprintf(`Video: PID 0x1E1
Audio: PID 0x1E4
Audio: PID 0x1E5
.Video (V) exported to '%s'
Audio 1 MPEG-1 Layer2 -> '%s'
Audio 2 AC-3 -> '%s'
`, videoPath, filepath.Join(dir, "rec-demux[0].mp2"), audioPath)
	logPath := filepath.Join(dir, "rec-demux_log.txt")
	if err := os.WriteFile(logPath, []byte(log), 0644); err != nil {
		t.Fatalf("write demux log: %v", err)
	}

	out, err := streams.ResolveOutputs(logPath, demuxSelection())
	if err != nil {
		t.Fatalf("ResolveOutputs returned error: %v", err)
	}
	if out.VideoPath != videoPath {
		t.Fatalf("unexpected video path: %q", out.VideoPath)
	}
	if out.AudioPath != audioPath {
		t.Fatalf("unexpected audio path: %q", out.AudioPath)
	}
}

func TestResolveOutputsMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "rec-demux[0].m2v")
	if err := os.WriteFile(videoPath, []byte("data"), 0644); err != nil {
		t.Fatalf("seed demux output: %v", err)
	}

	// The log names an audio file that was never written.
	log := fmt.Sprintf(`Video: PID 0x1E1
Audio: PID 0x1E5
.Video (V) exported to '%s'
Audio 1 AC-3 -> '%s'
`, videoPath, filepath.Join(dir, "missing.ac3"))
	logPath := filepath.Join(dir, "rec-demux_log.txt")
	if err := os.WriteFile(logPath, []byte(log), 0644); err != nil {
		t.Fatalf("write demux log: %v", err)
	}

	sel := streams.Selection{
		Video: []streams.Descriptor{{PID: 0x1e1, Enabled: true}},
		Audio: []streams.Descriptor{{PID: 0x1e5, Enabled: true}},
	}
	_, err := streams.ResolveOutputs(logPath, sel)
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestResolveOutputsMissingLogFails(t *testing.T) {
	_, err := streams.ResolveOutputs(filepath.Join(t.TempDir(), "absent_log.txt"), demuxSelection())
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}
