package episodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Series is one series search match.
type Series struct {
	ID   int64  `json:"id"`
	Name string `json:"seriesName"`
}

// Episode is one aired episode of a series.
type Episode struct {
	Season     int     `json:"airedSeason"`
	Number     int     `json:"airedEpisodeNumber"`
	Name       string  `json:"episodeName"`
	FirstAired string  `json:"firstAired"` // YYYY-MM-DD
	Overview   string  `json:"overview"`
	SiteRating float64 `json:"siteRating"`
}

type searchResponse struct {
	Data []Series `json:"data"`
}

type episodesResponse struct {
	Data  []Episode `json:"data"`
	Links struct {
		Next int `json:"next"`
		Last int `json:"last"`
	} `json:"links"`
}

// Lister defines the episode-database operations the lookup uses.
type Lister interface {
	SearchSeries(ctx context.Context, name string) ([]Series, error)
	SeriesEpisodes(ctx context.Context, seriesID int64) ([]Episode, error)
}

// Client queries an episode-database REST service.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Lister = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an episode-database client.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("episodes base url required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchSeries looks a series up by name.
func (c *Client) SearchSeries(ctx context.Context, name string) ([]Series, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("series name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search/series")
	if err != nil {
		return nil, fmt.Errorf("parse episodes url: %w", err)
	}
	params := url.Values{}
	params.Set("name", name)
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.get(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// SeriesEpisodes fetches every aired episode of a series, following the
// service's pagination links.
func (c *Client) SeriesEpisodes(ctx context.Context, seriesID int64) ([]Episode, error) {
	if seriesID <= 0 {
		return nil, errors.New("series id must be positive")
	}

	var all []Episode
	page := 1
	for {
		endpoint, err := url.Parse(fmt.Sprintf("%s/series/%d/episodes", c.baseURL, seriesID))
		if err != nil {
			return nil, fmt.Errorf("parse episodes url: %w", err)
		}
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		endpoint.RawQuery = params.Encode()

		var payload episodesResponse
		if err := c.get(ctx, endpoint.String(), &payload); err != nil {
			return nil, err
		}
		all = append(all, payload.Data...)
		if payload.Links.Next <= page || payload.Links.Next > payload.Links.Last {
			break
		}
		page = payload.Links.Next
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("episode database returned %d (latency=%v)", resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode episode response: %w", err)
	}
	return nil
}
