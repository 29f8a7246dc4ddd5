// Package chapters renders chapter marker files from a plan's markers: the
// GPAC 3GPP text stream XML that MP4Box embeds and the simple-format file
// that mkvmerge consumes.
package chapters

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"recut/internal/timeline"
)

// MP4 renders the chapter markers as a GPAC 3GPP text stream document,
// suitable for MP4Box's "-add file.xml:chap". Interior markers become
// labelled text samples at whole-second positions; the closing marker
// becomes an empty sample that terminates the last chapter.
func MP4(markers []timeline.Marker) string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<!--GPAC 3GPP Text Stream-->\n")
	sb.WriteString("<TextStream version=\"1.1\">\n")
	sb.WriteString("  <TextStreamHeader>\n")
	sb.WriteString("    <TextSampleDescription>\n")
	sb.WriteString("      <FontTable/>\n")
	sb.WriteString("    </TextSampleDescription>\n")
	sb.WriteString("  </TextStreamHeader>\n")
	for _, marker := range markers {
		sampleTime := formatTime(math.Round(marker.Elapsed))
		if marker.Closing {
			fmt.Fprintf(&sb, "  <TextSample sampleTime=%q text=\"\"/>\n", sampleTime)
			continue
		}
		fmt.Fprintf(&sb, "  <TextSample sampleTime=%q xml:space=\"preserve\">%s</TextSample>\n",
			sampleTime, escapeXML(fmt.Sprintf("Scene %d", marker.Scene)))
	}
	sb.WriteString("</TextStream>\n")
	return sb.String()
}

// Matroska renders the chapter markers in the simple Matroska chapter
// format for mkvmerge's "--chapters". The closing marker carries no title
// and is omitted. Returns the empty string when no interior markers exist.
func Matroska(markers []timeline.Marker) string {
	var sb strings.Builder
	for _, marker := range markers {
		if marker.Closing {
			continue
		}
		index := marker.Scene - 1
		fmt.Fprintf(&sb, "CHAPTER%02d=%s\n", index, formatTime(marker.Elapsed))
		fmt.Fprintf(&sb, "CHAPTER%02dNAME=Scene %d\n", index, marker.Scene)
	}
	return sb.String()
}

func formatTime(sec float64) string {
	hours := int(sec / 3600)
	sec -= float64(hours) * 3600
	minutes := int(sec / 60)
	sec -= float64(minutes) * 60
	return fmt.Sprintf("%02d:%02d:%07.4f", hours, minutes, sec)
}

func escapeXML(value string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(value)); err != nil {
		return value
	}
	return sb.String()
}
