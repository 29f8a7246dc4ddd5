// Package comskip reads commercial-detection sidecars produced by Comskip.
//
// A sidecar is a plain text file next to the recording, holding one line
// per commercial break with the start and end frame numbers. Frame pairs
// are converted to seconds using the recording's frame rate.
package comskip

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"recut/internal/services"
	"recut/internal/timeline"
)

var framePairRE = regexp.MustCompile(`^(\d+)\s+(\d+)\s*$`)

// SidecarPath derives the sidecar file name for a recording by swapping
// its extension for .txt.
func SidecarPath(recording string) string {
	return strings.TrimSuffix(recording, filepath.Ext(recording)) + ".txt"
}

// Parse reads frame pairs from r and converts them to a cutlist in seconds.
// Lines that do not hold exactly two frame numbers (headers, totals) are
// skipped, matching Comskip's loose output format.
func Parse(r io.Reader, fps float64) (timeline.Cutlist, error) {
	if fps <= 0 || math.IsInf(fps, 0) || math.IsNaN(fps) {
		return nil, fmt.Errorf("%w: frame rate %v cannot convert frames to seconds", services.ErrValidation, fps)
	}
	var cuts timeline.Cutlist
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		match := framePairRE.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if match == nil {
			continue
		}
		start, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil {
			continue
		}
		cuts = append(cuts, timeline.Cut{
			Start: float64(start) / fps,
			End:   float64(end) / fps,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read comskip sidecar: %w", err)
	}
	return cuts, nil
}

// Load reads the sidecar beside recording. A missing sidecar means no
// commercials were flagged and yields an empty cutlist.
func Load(recording string, fps float64) (timeline.Cutlist, error) {
	file, err := os.Open(SidecarPath(recording))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open comskip sidecar: %w", err)
	}
	defer file.Close()
	return Parse(file, fps)
}
