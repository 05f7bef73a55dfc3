package mock

import (
	"context"
	"sync"

	satbrowse "github.com/psagers/sat-browse"
)

// Compile-time interface checks
var (
	_ satbrowse.Fetcher   = (*Fetcher)(nil)
	_ satbrowse.Converter = (*Converter)(nil)
	_ satbrowse.Archive   = (*Archive)(nil)
)

// Fetcher is a mock implementation of satbrowse.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*satbrowse.Page, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*satbrowse.Page, error) {
	return f.FetchFn(ctx, url)
}

// Converter is a mock implementation of satbrowse.Converter.
type Converter struct {
	TitleFn func(html string) string
	TextFn  func(html string) string
}

func (c *Converter) Title(html string) string {
	if c.TitleFn != nil {
		return c.TitleFn(html)
	}
	return ""
}

func (c *Converter) Text(html string) string {
	if c.TextFn != nil {
		return c.TextFn(html)
	}
	return html
}

// Archive is a mock implementation of satbrowse.Archive that records saved
// pages.
type Archive struct {
	SaveFn func(ctx context.Context, key string, body []byte) error

	mu    sync.Mutex
	saved map[string][]byte
}

func (a *Archive) Save(ctx context.Context, key string, body []byte) error {
	a.mu.Lock()
	if a.saved == nil {
		a.saved = make(map[string][]byte)
	}
	a.saved[key] = append([]byte(nil), body...)
	a.mu.Unlock()

	if a.SaveFn != nil {
		return a.SaveFn(ctx, key, body)
	}
	return nil
}

// Saved returns the archived body for a key, or nil.
func (a *Archive) Saved(key string) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved[key]
}
