package metadata

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// matroskaTarget is one target level in a Matroska global-tags document.
type matroskaTarget struct {
	targetType string
	value      int
	simples    []simpleTag
}

type simpleTag struct {
	name  string
	value string
}

func (t *matroskaTarget) add(name, value string) {
	t.simples = append(t.simples, simpleTag{name: strings.ToUpper(name), value: value})
}

// MatroskaTags renders the Matroska global-tags XML embedding the episode
// metadata at collection, season, and episode target levels. encoder is
// recorded as the ENCODER tag; now stamps the encode and tag dates.
func (e *Episode) MatroskaTags(encoder string, now time.Time) string {
	show := &matroskaTarget{targetType: "COLLECTION", value: 70}
	season := &matroskaTarget{targetType: "SEASON", value: 60}
	episode := &matroskaTarget{targetType: "EPISODE", value: 50}

	if e.Title != "" {
		show.add("title", e.Title)
	}
	if e.Category != "" {
		show.add("genre", e.Category)
	}
	if e.SeasonCount > 0 {
		show.add("part_number", strconv.Itoa(e.SeasonCount))
	}
	if e.Season > 0 {
		season.add("part_number", strconv.Itoa(e.Season))
	}
	if e.EpisodeCount > 0 {
		season.add("total_parts", strconv.Itoa(e.EpisodeCount))
	}

	if e.Subtitle != "" {
		episode.add("subtitle", e.Subtitle)
	}
	if e.Episode > 0 {
		episode.add("part_number", strconv.Itoa(e.Episode))
	}
	if e.EpisodeCode != "" {
		episode.add("catalog_number", e.EpisodeCode)
	}
	if e.Channel != "" {
		episode.add("distributed_by", e.Channel)
	}
	if e.Description != "" {
		episode.add("description", e.Description)
	}
	if e.Rating != "" {
		episode.add("law_rating", e.Rating)
	}
	if e.Popularity > 0 {
		// Scale 0-255 popularity onto the 0-5 star scale in half steps.
		stars := float64(e.Popularity) / 51.0 * 2
		episode.add("rating", fmt.Sprintf("%.1f", math.Round(stars)/2))
	}
	if !e.OriginalAirdate.IsZero() {
		episode.add("date_released", e.OriginalAirdate.Format("2006-01-02"))
	}
	if !e.RecordedAt.IsZero() {
		episode.add("date_recorded", e.RecordedAt.Format("2006-01-02"))
	}
	stamp := now.Format("2006-01-02 15:04:05")
	episode.add("date_encoded", stamp)
	episode.add("date_tagged", stamp)
	episode.add("encoder", encoder)
	if e.FPS > 0 {
		episode.add("fps", strconv.FormatFloat(e.FPS, 'f', -1, 64))
	}

	for _, person := range e.Credits {
		switch person.Role {
		case "actor", "host", "guest_star", "":
			episode.add("actor", person.Person)
		case "director":
			episode.add("director", person.Person)
		case "executive_producer":
			episode.add("executive_producer", person.Person)
		case "producer":
			episode.add("producer", person.Person)
		case "writer":
			episode.add("written_by", person.Person)
		}
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<!DOCTYPE Tags SYSTEM \"http://www.matroska.org/files/tags/matroskatags.dtd\">\n")
	b.WriteString("<Tags>\n")
	for _, target := range []*matroskaTarget{show, season, episode} {
		b.WriteString("  <Tag>\n")
		b.WriteString("    <Targets>\n")
		fmt.Fprintf(&b, "      <TargetTypeValue>%d</TargetTypeValue>\n", target.value)
		fmt.Fprintf(&b, "      <TargetType>%s</TargetType>\n", target.targetType)
		b.WriteString("    </Targets>\n")
		for _, simple := range target.simples {
			b.WriteString("    <Simple>\n")
			fmt.Fprintf(&b, "      <Name>%s</Name>\n", escapeXML(simple.name))
			fmt.Fprintf(&b, "      <String>%s</String>\n", escapeXML(simple.value))
			b.WriteString("    </Simple>\n")
		}
		b.WriteString("  </Tag>\n")
	}
	b.WriteString("</Tags>\n")
	return b.String()
}

func escapeXML(value string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}
