package metadata

import (
	"path/filepath"
	"strconv"
	"strings"

	"recut/internal/textutil"
)

// NamingOptions controls how the library path is rendered.
type NamingOptions struct {
	// Format is the path template. Tags: %T title, %S subtitle,
	// %R description, %C category, %n episode code, %s season,
	// %E episode, %e aligned episode, %r content rating,
	// %oy/%oY/%on/%om/%oj/%od original-airdate parts,
	// %- literal dash, %% literal percent. Slashes create directories.
	Format string
	// ReplaceChar substitutes for path separators inside tag values and
	// for control characters in the rendered path.
	ReplaceChar string
	// FoldASCII transliterates the rendered path to ASCII for
	// filesystems without Unicode support.
	FoldASCII bool
}

// FinalName renders the output path, without extension, under libraryDir.
// Every rendered path element is sanitized for filesystem-unsafe
// characters. When the episode has no title the recording base name is
// used unchanged.
func (e *Episode) FinalName(libraryDir, base string, opts NamingOptions) string {
	if e == nil || e.Title == "" {
		return filepath.Join(libraryDir, base)
	}

	path := opts.Format
	replace := func(tag, value string, known bool) {
		if !known {
			path = strings.ReplaceAll(path, tag, "")
			return
		}
		path = strings.ReplaceAll(path, tag, strings.ReplaceAll(value, "/", opts.ReplaceChar))
	}

	replace("%T", e.Title, e.Title != "")
	replace("%S", e.Subtitle, e.Subtitle != "")
	replace("%R", e.Description, e.Description != "")
	replace("%C", e.Category, e.Category != "")
	replace("%n", e.EpisodeCode, e.EpisodeCode != "")
	replace("%s", strconv.Itoa(e.Season), e.Season > 0)
	replace("%E", strconv.Itoa(e.Episode), e.Episode > 0)
	replace("%e", e.AlignedEpisode(), e.Episode > 0)
	replace("%r", e.Rating, e.Rating != "")

	airdateTags := []struct{ tag, layout string }{
		{"%oy", "06"},
		{"%oY", "2006"},
		{"%on", "01"},
		{"%om", "01"},
		{"%oj", "02"},
		{"%od", "02"},
	}
	for _, t := range airdateTags {
		if e.OriginalAirdate.IsZero() {
			path = strings.ReplaceAll(path, t.tag, "")
		} else {
			path = strings.ReplaceAll(path, t.tag, e.OriginalAirdate.Format(t.layout))
		}
	}

	path = strings.ReplaceAll(path, "%-", "-")
	path = strings.ReplaceAll(path, "%%", "%")
	path = textutil.SanitizePath(path, opts.ReplaceChar)
	if opts.FoldASCII {
		path = textutil.FoldASCII(path)
	}

	elems := []string{libraryDir}
	for _, elem := range strings.Split(path, "/") {
		elems = append(elems, textutil.SanitizeFileName(elem))
	}
	return filepath.Join(elems...)
}
