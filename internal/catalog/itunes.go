package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Client queries the public iTunes search API for track durations and
// artwork. All calls run through a circuit breaker: the catalog is a
// nice-to-have, and when it is down or slow the read path must keep
// answering from what it has rather than queue up on a dead upstream.

const DefaultBaseURL = "https://itunes.apple.com/search"

type ITunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []ITunesResult `json:"results"`
}

type ITunesResult struct {
	ArtistName      string `json:"artistName"`
	TrackName       string `json:"trackName"`
	CollectionName  string `json:"collectionName"`
	Kind            string `json:"kind"`
	TrackTimeMillis int    `json:"trackTimeMillis"`
	ArtworkURL100   string `json:"artworkUrl100"`
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*ITunesResponse]
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	breaker := gobreaker.NewCircuitBreaker[*ITunesResponse](gobreaker.Settings{
		Name:        "itunes-search",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (c *Client) search(ctx context.Context, params url.Values) (*ITunesResponse, error) {
	return c.breaker.Execute(func() (*ITunesResponse, error) {
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, err
		}
		u.RawQuery = params.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("itunes search status %d", resp.StatusCode)
		}
		var result ITunesResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, err
		}
		return &result, nil
	})
}

// TrackDuration looks up a track length in whole seconds for a free-text
// term. "No result" is an error so callers fall through to their defaults.
func (c *Client) TrackDuration(ctx context.Context, term string) (int, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", "1")

	result, err := c.search(ctx, params)
	if err != nil {
		return 0, err
	}
	if result.ResultCount == 0 || len(result.Results) == 0 {
		return 0, fmt.Errorf("no results for %q", term)
	}
	ms := result.Results[0].TrackTimeMillis
	if ms <= 0 {
		return 0, fmt.Errorf("no track length for %q", term)
	}
	return int((time.Duration(ms) * time.Millisecond).Round(time.Second) / time.Second), nil
}

// Artwork is a resolved cover image plus how many candidate hits the winning
// query returned.
type Artwork struct {
	URL  string `json:"url"`
	Hits int    `json:"hits"`
}

var (
	bracketRe   = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]\s*`)
	featRe      = regexp.MustCompile(`(?i)\s+(feat|ft|with|x|&)\.?\s+.+$`)
	qualifierRe = regexp.MustCompile(`(?i)\b(clean|explicit|radio\s+edit|edit|remix|mix|version|rework|vip|club\s+mix)\b`)
	sizeRe      = regexp.MustCompile(`(?i)/\d+x\d+bb?\.jpg`)
)

// stripNoise removes the bracketed and trailing qualifiers that commonly
// steer the search toward the wrong release.
func stripNoise(s string) string {
	s = bracketRe.ReplaceAllString(s, " ")
	s = featRe.ReplaceAllString(s, " ")
	s = qualifierRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Artwork searches for cover art, most specific query first, trying the song
// entity before falling back to albums. The winning artworkUrl100 is upsized
// to 600x600, which iTunes serves more reliably than the 300x300 variant.
func (c *Client) Artwork(ctx context.Context, artist, title, country string, limit int) (Artwork, error) {
	a := stripNoise(artist)
	t := stripNoise(title)

	var queries []string
	switch {
	case a != "" && t != "":
		queries = []string{a + " " + t, t + " " + a, t}
	case t != "":
		queries = []string{t}
	case a != "":
		queries = []string{a}
	default:
		return Artwork{}, fmt.Errorf("empty artwork query")
	}

	if limit <= 0 || limit > 10 {
		limit = 3
	}

	for _, q := range queries {
		for _, entity := range []struct{ entity, attribute string }{
			{"song", "songTerm"},
			{"album", "albumTerm"},
		} {
			params := url.Values{}
			params.Set("term", q)
			params.Set("media", "music")
			params.Set("entity", entity.entity)
			params.Set("attribute", entity.attribute)
			params.Set("limit", strconv.Itoa(limit))
			if country != "" {
				params.Set("country", country)
			}

			result, err := c.search(ctx, params)
			if err != nil {
				return Artwork{}, err
			}
			for _, hit := range result.Results {
				if hit.ArtworkURL100 != "" {
					return Artwork{
						URL:  sizeRe.ReplaceAllString(hit.ArtworkURL100, "/600x600bb.jpg"),
						Hits: result.ResultCount,
					}, nil
				}
			}
		}
	}
	return Artwork{}, nil
}
