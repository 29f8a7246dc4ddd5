package metadata

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recut/internal/catalog"
)

// Credit names one credited person and their role. Roles follow the
// guide-data vocabulary: actor, host, guest_star, director, producer,
// executive_producer, writer. An empty role counts as cast.
type Credit struct {
	Person string
	Role   string
}

// Episode aggregates everything known about one recorded broadcast.
// Zero values mean unknown; renderers skip unknown fields.
type Episode struct {
	Channel         string
	Title           string
	Subtitle        string
	Description     string
	Category        string
	OriginalAirdate time.Time
	EpisodeCode     string
	Season          int
	Episode         int
	SeasonCount     int
	EpisodeCount    int
	Rating          string
	Popularity      int
	ArtworkPath     string
	RecordedAt      time.Time
	FPS             float64
	Credits         []Credit
}

// FromRecording builds an Episode from a catalog row and its credits.
func FromRecording(rec *catalog.Recording, credits []catalog.Credit) *Episode {
	if rec == nil {
		return &Episode{}
	}
	ep := &Episode{
		Channel:     rec.ChannelID,
		Title:       rec.Title,
		Subtitle:    rec.Subtitle,
		Description: rec.Description,
		Category:    rec.Category,
		EpisodeCode: rec.EpisodeCode,
		Rating:      rec.Rating,
		RecordedAt:  rec.StartTime,
		FPS:         rec.FPS,
	}
	if rec.OriginalAirdate != "" {
		if airdate, err := time.Parse("2006-01-02", rec.OriginalAirdate); err == nil {
			ep.OriginalAirdate = airdate
		}
	}
	for _, credit := range credits {
		ep.Credits = append(ep.Credits, Credit{Person: credit.Person, Role: credit.Role})
	}
	return ep
}

// DeriveTitle produces a presentable series title from a recording's file
// name when no guide data is available.
func DeriveTitle(sourcePath string) string {
	if sourcePath == "" {
		return "Unknown Recording"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		title = "Unknown Recording"
	}
	return cases.Title(language.Und).String(title)
}

// SortCredits orders credits by role, then by the person's last name.
func (e *Episode) SortCredits() {
	sort.SliceStable(e.Credits, func(i, j int) bool {
		return creditSortKey(e.Credits[i]) < creditSortKey(e.Credits[j])
	})
}

func creditSortKey(c Credit) string {
	return c.Role + " " + lastNameFirst(c.Person)
}

// lastNameFirst reverses a full name so the last name leads.
func lastNameFirst(name string) string {
	names := strings.Fields(name)
	if len(names) == 0 {
		return ""
	}
	return strings.TrimSpace(names[len(names)-1] + " " + strings.Join(names[:len(names)-1], " "))
}

// AlignedEpisode renders the episode number zero-padded so the final
// episode of the season aligns with it. Usually a field width of two,
// since most seasons have fewer than 100 episodes.
func (e *Episode) AlignedEpisode() string {
	if e.Episode <= 0 {
		return ""
	}
	if e.EpisodeCount <= 0 {
		return fmt.Sprintf("%d", e.Episode)
	}
	field := int(math.Ceil(math.Log10(float64(e.EpisodeCount))))
	return fmt.Sprintf("%0*d", field, e.Episode)
}

// castGroups splits the credits into cast, directors, and producers the
// way iTunes expects them, preserving a stable precedence: regulars before
// guest stars, executive producers before producers before writers.
func (e *Episode) castGroups() (cast, directors, producers []string) {
	for _, person := range e.Credits {
		switch person.Role {
		case "actor", "host", "":
			cast = append(cast, person.Person)
		case "director":
			directors = append(directors, person.Person)
		case "executive_producer":
			producers = append(producers, person.Person)
		}
	}
	for _, person := range e.Credits {
		switch person.Role {
		case "guest_star":
			cast = append(cast, person.Person)
		case "producer":
			producers = append(producers, person.Person)
		}
	}
	for _, person := range e.Credits {
		if person.Role == "writer" {
			producers = append(producers, person.Person)
		}
	}
	return cast, directors, producers
}
