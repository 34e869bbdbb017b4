package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aircheck/internal/store"
)

// FallbackClient fetches the manually-published latest-track JSON feed, the
// last resort when both the scrape and the push path are gone. The feed is
// updated by hand and may be arbitrarily stale, which is why anything it
// produces is flagged low-confidence downstream.
type FallbackClient struct {
	url  string
	http *http.Client
}

func NewFallbackClient(url string, timeout time.Duration) *FallbackClient {
	return &FallbackClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *FallbackClient) Fetch(ctx context.Context) (store.Latest, error) {
	// Cache-bust: the feed sits behind a CDN that ignores no-store.
	u := c.url
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	u += sep + "_=" + strconv.FormatInt(time.Now().UnixMilli(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return store.Latest{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return store.Latest{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return store.Latest{}, fmt.Errorf("fallback feed returned %d", resp.StatusCode)
	}
	var rec store.Latest
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return store.Latest{}, err
	}
	return rec, nil
}
