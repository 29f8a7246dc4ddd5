package captions

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:04,170 --> 00:00:06,500
PREVIOUSLY ON THE PROGRAM...

2
00:00:06,506 --> 00:00:09,342
>> WE HAVE A SITUATION
DOWNTOWN.

3
00:00:19,936 --> 00:00:22,438
>> EVERYBODY STAY CALM.
`

func TestParse(t *testing.T) {
	track := Parse([]byte(sampleSRT))
	if len(track) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(track))
	}
	first := track[0]
	if first.Index != 1 {
		t.Fatalf("unexpected index: %d", first.Index)
	}
	if math.Abs(first.Start-4.17) > 1e-9 {
		t.Fatalf("unexpected start: %v", first.Start)
	}
	if math.Abs(first.End-6.5) > 1e-9 {
		t.Fatalf("unexpected end: %v", first.End)
	}
	if first.Text != "PREVIOUSLY ON THE PROGRAM..." {
		t.Fatalf("unexpected text: %q", first.Text)
	}
	if track[1].Text != ">> WE HAVE A SITUATION\nDOWNTOWN." {
		t.Fatalf("expected multi-line text preserved, got %q", track[1].Text)
	}
}

func TestParseHandlesCRLFAndEmpty(t *testing.T) {
	crlf := strings.ReplaceAll(sampleSRT, "\n", "\r\n")
	if got := Parse([]byte(crlf)); len(got) != 3 {
		t.Fatalf("expected 3 captions from CRLF input, got %d", len(got))
	}
	if got := Parse(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := Parse([]byte("  \n\n  ")); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	content := `garbage header

1
00:00:01,000 --> 00:00:02,000
KEEP ME.

two
00:00:03,000 --> 00:00:04,000
BAD INDEX.

3
not a timing line
BAD TIMING.
`
	track := Parse([]byte(content))
	if len(track) != 1 {
		t.Fatalf("expected 1 caption, got %d: %+v", len(track), track)
	}
	if track[0].Text != "KEEP ME." {
		t.Fatalf("unexpected survivor: %q", track[0].Text)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	track := Parse([]byte(sampleSRT))
	again := Parse([]byte(Format(track)))
	if len(again) != len(track) {
		t.Fatalf("round trip changed caption count: %d vs %d", len(again), len(track))
	}
	for i := range track {
		if again[i] != track[i] {
			t.Fatalf("caption %d changed in round trip: %+v vs %+v", i, again[i], track[i])
		}
	}
}

func TestReadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captions.srt")
	if err := os.WriteFile(path, []byte(sampleSRT), 0644); err != nil {
		t.Fatalf("seed captions file: %v", err)
	}
	track, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if len(track) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(track))
	}
	out := filepath.Join(dir, "adjusted.srt")
	if err := WriteFile(out, track); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if !strings.Contains(string(data), "00:00:04,170 --> 00:00:06,500") {
		t.Fatalf("written file missing timing line:\n%s", data)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"00:00:04,170", 4.17},
		{"01:02:03,456", 3723.456},
		{"00:00:01.500", 1.5},
		{"00:00:01,5", 1.5},
		{" 00:10:00,000 ", 600},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.value)
		if err != nil {
			t.Fatalf("parseTimestamp(%q) returned error: %v", tt.value, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("parseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	for _, bad := range []string{"", "1:2", "aa:bb:cc,dd", "00:00:01"} {
		if _, err := parseTimestamp(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{4.17, "00:00:04,170"},
		{3723.456, "01:02:03,456"},
		{59.9996, "00:01:00,000"},
		{-3, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.seconds); got != tt.want {
			t.Fatalf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
