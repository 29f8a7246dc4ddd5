package catalog

import (
	"fmt"
	"strings"
	"time"

	"recut/internal/services"
	"recut/internal/textutil"
)

// timestampLayout is the compact start-time form recorders use
// (YYYYMMDDHHMMSS, local time).
const timestampLayout = "20060102150405"

// Recording is one catalog row describing a captured broadcast.
type Recording struct {
	ID              int64
	ChannelID       string
	StartTime       time.Time
	Title           string
	Subtitle        string
	Description     string
	Category        string
	OriginalAirdate string // YYYY-MM-DD, empty when unknown
	EpisodeCode     string
	Rating          string // content rating, e.g. "TV-PG"
	FPS             float64
	FilePath        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Base returns the workspace base name for the recording,
// "<channel>_<YYYYMMDDHHMMSS>".
func (r *Recording) Base() string {
	return fmt.Sprintf("%s_%s", textutil.SanitizeToken(r.ChannelID), FormatStartTime(r.StartTime))
}

// CutMark is one commercial break expressed in frame numbers.
type CutMark struct {
	StartFrame int64
	EndFrame   int64
}

// Credit names one cast or crew member attached to a recording.
type Credit struct {
	Person string
	Role   string
}

// ParseStartTime parses the compact 14-digit recorder timestamp.
func ParseStartTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) != 14 {
		return time.Time{}, fmt.Errorf("%w: start time %q must be 14 digits (YYYYMMDDHHMMSS)", services.ErrValidation, value)
	}
	t, err := time.ParseInLocation(timestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid start time %q: %v", services.ErrValidation, value, err)
	}
	return t, nil
}

// FormatStartTime renders a timestamp in the compact recorder form.
func FormatStartTime(t time.Time) string {
	return t.Local().Format(timestampLayout)
}
