package reconciler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusClient fetches the scraped plaintext/HTML status page. The upstream
// is not under our control; the body is size-capped and handed to the
// parser as-is.
type StatusClient struct {
	url  string
	http *http.Client
}

const maxStatusBody = 64 << 10

func NewStatusClient(url string, timeout time.Duration) *StatusClient {
	return &StatusClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *StatusClient) FetchStatusLine(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status page returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
