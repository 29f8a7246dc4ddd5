// Package captions parses, resynchronizes, and writes SRT caption tracks.
package captions

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Caption is a single subtitle cue with timing and text.
type Caption struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Parse decodes SRT content into captions. Malformed blocks are skipped so
// that a noisy extractor run still yields the usable cues.
func Parse(data []byte) []Caption {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	blocks := strings.Split(content, "\n\n")
	var captions []Caption

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		var index int
		if _, err := fmt.Sscanf(lines[0], "%d", &index); err != nil {
			continue
		}

		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			continue
		}
		start, err := parseTimestamp(parts[0])
		if err != nil {
			continue
		}
		end, err := parseTimestamp(parts[1])
		if err != nil {
			continue
		}

		captions = append(captions, Caption{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}

	return captions
}

// ReadFile parses the SRT file at path.
func ReadFile(path string) ([]Caption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	return Parse(data), nil
}

// Format renders captions back into SRT text.
func Format(captions []Caption) string {
	var sb strings.Builder
	for i, caption := range captions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", caption.Index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatTimestamp(caption.Start), formatTimestamp(caption.End)))
		sb.WriteString(caption.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteFile renders captions to an SRT file at path.
func WriteFile(path string, captions []Caption) error {
	if err := os.WriteFile(path, []byte(Format(captions)), 0644); err != nil {
		return fmt.Errorf("write captions: %w", err)
	}
	return nil
}

func parseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Some extractors emit a period before the milliseconds.
	value = strings.ReplaceAll(value, ".", ",")
	clock, frac, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	fraction, errF := strconv.Atoi(frac)
	if errH != nil || errM != nil || errS != nil || errF != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(fraction)/math.Pow10(len(frac)), nil
}

func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
