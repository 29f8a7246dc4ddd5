// Package episodes fills missing broadcast metadata from an episode-database
// service.
//
// Lookups run only when metadata handling is enabled and a series title is
// known. A failed lookup is a logged warning, never a pipeline failure: the
// recording still transcodes, just with thinner tags.
package episodes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recut/internal/metadata"
)

// ErrNoMatch reports that the service has no episode for the recording.
var ErrNoMatch = errors.New("no matching episode")

// Options tunes how lookup results are folded into the episode record.
type Options struct {
	// UseRating appends the listing rating to the description.
	UseRating bool
	// UseDescriptions replaces the guide description with the listing's
	// when the listing's is longer.
	UseDescriptions bool
}

// Enrich looks the episode up by airdate or subtitle and fills the missing
// fields in place. Returns ErrNoMatch when the series or episode cannot be
// found.
func Enrich(ctx context.Context, lister Lister, ep *metadata.Episode, opts Options) error {
	if ep == nil || strings.TrimSpace(ep.Title) == "" {
		return ErrNoMatch
	}

	series, err := lister.SearchSeries(ctx, ep.Title)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return ErrNoMatch
	}

	listed, err := lister.SeriesEpisodes(ctx, series[0].ID)
	if err != nil {
		return err
	}

	match, ok := findEpisode(listed, ep.OriginalAirdate, ep.Subtitle)
	if !ok {
		return ErrNoMatch
	}

	apply(ep, match, seasonEpisodeCount(listed, match.Season), opts)
	return nil
}

// findEpisode locates the aired episode, preferring an exact airdate match
// and falling back to the subtitle name. Name comparison accepts substring
// containment either way as a tie-break for guide data that truncates or
// extends episode names.
func findEpisode(listed []Episode, airdate time.Time, subtitle string) (Episode, bool) {
	if !airdate.IsZero() {
		want := airdate.Format("2006-01-02")
		for _, ep := range listed {
			if ep.FirstAired == want {
				return ep, true
			}
		}
	}
	subtitle = strings.ToLower(strings.TrimSpace(subtitle))
	if subtitle == "" {
		return Episode{}, false
	}
	for _, ep := range listed {
		if strings.ToLower(strings.TrimSpace(ep.Name)) == subtitle {
			return ep, true
		}
	}
	for _, ep := range listed {
		name := strings.ToLower(strings.TrimSpace(ep.Name))
		if name == "" {
			continue
		}
		if strings.Contains(name, subtitle) || strings.Contains(subtitle, name) {
			return ep, true
		}
	}
	return Episode{}, false
}

func seasonEpisodeCount(listed []Episode, season int) int {
	count := 0
	for _, ep := range listed {
		if ep.Season == season {
			count++
		}
	}
	return count
}

func apply(ep *metadata.Episode, match Episode, episodeCount int, opts Options) {
	if ep.Subtitle == "" {
		ep.Subtitle = match.Name
	}
	if match.Number > 0 {
		ep.Episode = match.Number
	}
	if match.Season > 0 {
		ep.Season = match.Season
	}
	if episodeCount > 0 {
		ep.EpisodeCount = episodeCount
	}
	if ep.Season > 0 && ep.Episode > 0 && ep.EpisodeCode == "" {
		ep.EpisodeCode = fmt.Sprintf("%d%s", ep.Season, ep.AlignedEpisode())
	}
	if overview := strings.TrimSpace(match.Overview); overview != "" {
		if ep.Description == "" {
			ep.Description = overview
		} else if opts.UseDescriptions && len(ep.Description) < len(overview) {
			ep.Description = overview
		}
	}
	if match.SiteRating > 0 {
		ep.Popularity = int(match.SiteRating / 10 * 255)
		if opts.UseRating {
			ep.Description += fmt.Sprintf(" (%.1f / 10)", match.SiteRating)
		}
	}
}
