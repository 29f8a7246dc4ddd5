package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// MP4Capabilities reports which optional AtomicParsley atoms the installed
// binary supports. Both require reverse-DNS atom handling.
type MP4Capabilities struct {
	ContentRating bool
	CreditsAtom   bool
}

// MP4SimpleTags assembles the single-argument AtomicParsley tags.
// encoder is embedded as the encodingTool.
func (e *Episode) MP4SimpleTags(encoder string, caps MP4Capabilities) []string {
	args := []string{
		"--stik", "TV Show",
		"--encodingTool", encoder,
		"--grouping", "TV Recording",
	}
	if !e.RecordedAt.IsZero() {
		args = append(args, "--purchaseDate", e.RecordedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if e.Title != "" {
		args = append(args,
			"--artist", e.Title,
			"--album", e.Title,
			"--albumArtist", e.Title,
			"--TVShowName", e.Title,
		)
	}
	if e.Subtitle != "" {
		args = append(args, "--title", e.Subtitle)
	}
	if e.Category != "" {
		args = append(args, "--genre", e.Category)
	}
	if !e.OriginalAirdate.IsZero() {
		args = append(args, "--year", e.OriginalAirdate.Format("2006-01-02"))
	}
	if e.Channel != "" {
		args = append(args, "--TVNetwork", e.Channel)
	}
	if e.EpisodeCode != "" {
		args = append(args, "--TVEpisode", e.EpisodeCode)
	}
	if e.Episode > 0 && e.EpisodeCount > 0 {
		track := fmt.Sprintf("%d/%d", e.Episode, e.EpisodeCount)
		args = append(args, "--tracknum", track, "--TVEpisodeNum", strconv.Itoa(e.Episode))
	}
	if e.Season > 0 && e.SeasonCount > 0 {
		disk := fmt.Sprintf("%d/%d", e.Season, e.SeasonCount)
		args = append(args, "--disk", disk, "--TVSeasonNum", strconv.Itoa(e.Season))
	}
	if e.Rating != "" && caps.ContentRating {
		args = append(args, "--contentRating", e.Rating)
	}
	return args
}

// MP4LongTags assembles the lengthier tags applied in a separate pass to
// avoid argument-length problems.
func (e *Episode) MP4LongTags() []string {
	if e.Description == "" {
		return nil
	}
	return []string{"--description", e.Description}
}

// MP4ArtworkArgs embeds series artwork when a downloaded image exists.
func (e *Episode) MP4ArtworkArgs() []string {
	if e.ArtworkPath == "" {
		return nil
	}
	return []string{"--artwork", e.ArtworkPath}
}

// MP4CreditsArgs renders the credits as an iTunMOVI plist and returns the
// reverse-DNS atom arguments embedding it. Returns nil when there are no
// credits to embed.
func (e *Episode) MP4CreditsArgs() []string {
	if len(e.Credits) == 0 {
		return nil
	}
	return []string{
		"--rDNSatom", e.creditsPlist(),
		"name=iTunMOVI",
		"domain=com.apple.iTunes",
	}
}

func (e *Episode) creditsPlist() string {
	cast, directors, producers := e.castGroups()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">`)
	b.WriteString(`<plist version="1.0"><dict>`)
	writePlistSection(&b, "cast", cast)
	writePlistSection(&b, "directors", directors)
	writePlistSection(&b, "producers", producers)
	b.WriteString(`</dict></plist>`)
	return b.String()
}

func writePlistSection(b *strings.Builder, key string, people []string) {
	if len(people) == 0 {
		return
	}
	b.WriteString("<key>")
	b.WriteString(key)
	b.WriteString("</key><array>")
	for _, person := range people {
		b.WriteString("<dict><key>name</key><string>")
		b.WriteString(escapeXML(person))
		b.WriteString("</string></dict>")
	}
	b.WriteString("</array>")
}
