// Package page retrieves web pages and reduces them to a title and a
// plain-text rendering.
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	satbrowse "github.com/psagers/sat-browse"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sat-browse/1.0 (+https://github.com/psagers/sat-browse)"
)

// Compile-time interface check
var _ satbrowse.Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher fetches web pages via HTTP GET. The fetch policy is strict:
// transport errors and non-2xx statuses are hard failures surfaced to the
// caller, never silently mapped to empty content.
type HTTPFetcher struct {
	client *http.Client
}

// NewFetcher creates an HTTPFetcher with the given timeout.
// A non-positive timeout falls back to the default.
func NewFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the content of the given URL, following redirects.
// The returned page carries the final resolved URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*satbrowse.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &satbrowse.Page{
		URL:  resp.Request.URL.String(),
		HTML: string(body),
	}, nil
}
