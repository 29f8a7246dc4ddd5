package streams

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"recut/internal/services"
)

// DemuxOutputs holds the elementary stream files named by the demuxer log.
type DemuxOutputs struct {
	VideoPath string
	AudioPath string

	// All lists every output file the log names, in order, so the
	// pipeline can sweep them up after encoding.
	All []string
}

var (
	videoPIDRE  = regexp.MustCompile(`Video: PID 0x([0-9A-Fa-f]+)`)
	audioPIDRE  = regexp.MustCompile(`Audio: PID 0x([0-9A-Fa-f]+)`)
	demuxPathRE = regexp.MustCompile(`'(.*)'\s*$`)
	audioFileRE = regexp.MustCompile(`^Audio \d`)
)

// ParseDemuxLog walks the demuxer's log and pairs the enabled descriptors
// with the output files it wrote.
//
// The log never ties an identifier to a filename on a single line, so the
// pairing is ordinal: the nth announcement of a kind's PID corresponds to
// the nth output file named for that kind. Two counters per kind track the
// announcement ordinal of the enabled PID and the file lines seen so far.
func ParseDemuxLog(r io.Reader, sel Selection) (DemuxOutputs, error) {
	var out DemuxOutputs
	currV, currA := 1, 1
	foundV, foundA := 0, 0
	targV, targA := 0, 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := videoPIDRE.FindStringSubmatch(line); m != nil {
			foundV++
			if pid, err := strconv.ParseInt(m[1], 16, 32); err == nil && pidEnabled(sel.Video, int(pid)) {
				targV = foundV
			}
		}
		if m := audioPIDRE.FindStringSubmatch(line); m != nil {
			foundA++
			if pid, err := strconv.ParseInt(m[1], 16, 32); err == nil && pidEnabled(sel.Audio, int(pid)) {
				targA = foundA
			}
		}
		switch {
		case strings.HasPrefix(line, ".Video "):
			if m := demuxPathRE.FindStringSubmatch(line); m != nil {
				out.All = append(out.All, m[1])
				if currV == targV {
					out.VideoPath = m[1]
				}
			}
			currV++
		case audioFileRE.MatchString(line):
			if m := demuxPathRE.FindStringSubmatch(line); m != nil {
				out.All = append(out.All, m[1])
				if currA == targA {
					out.AudioPath = m[1]
				}
			}
			currA++
		}
	}
	if err := scanner.Err(); err != nil {
		return DemuxOutputs{}, fmt.Errorf("read demux log: %w", err)
	}
	return out, nil
}

// ResolveOutputs parses the demuxer log at logPath and verifies that the
// resolved files exist on disk. A missing file means the demuxer produced
// an unexpected output layout.
func ResolveOutputs(logPath string, sel Selection) (DemuxOutputs, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return DemuxOutputs{}, fmt.Errorf("%w: open demux log: %v", services.ErrResolution, err)
	}
	defer file.Close()

	out, err := ParseDemuxLog(file, sel)
	if err != nil {
		return DemuxOutputs{}, err
	}
	if out.VideoPath == "" || !fileExists(out.VideoPath) {
		return DemuxOutputs{}, fmt.Errorf("%w: could not locate demuxed video stream", services.ErrResolution)
	}
	if out.AudioPath == "" || !fileExists(out.AudioPath) {
		return DemuxOutputs{}, fmt.Errorf("%w: could not locate demuxed audio stream", services.ErrResolution)
	}
	return out, nil
}

func pidEnabled(descs []Descriptor, pid int) bool {
	for _, d := range descs {
		if d.PID == pid && d.Enabled {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
