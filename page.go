package satbrowse

import "context"

// Page is the fetched content of a URL.
type Page struct {
	// URL is the final URL after redirects.
	URL string

	// HTML is the raw response body.
	HTML string
}

// Fetcher retrieves a URL's content over HTTP. The fetch policy is strict:
// transport errors and non-2xx statuses are hard failures.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Converter reduces HTML to a title and a plain-text rendering.
type Converter interface {
	// Title returns the content of the first <title> element, or "" when
	// the document has none.
	Title(html string) string

	// Text returns a plain-text rendering of the document. Empty input
	// yields empty output.
	Text(html string) string
}

// Archive stores raw fetched pages keyed by request ID. Archiving is
// best-effort: failures never affect request processing.
type Archive interface {
	Save(ctx context.Context, key string, body []byte) error
}

// ArchiveConfig holds configuration for the page archive.
type ArchiveConfig struct {
	// Provider is the archive provider ("none", "local" or "s3").
	Provider string

	// LocalPath is the directory for local archives.
	LocalPath string

	// S3-specific configuration.
	S3Bucket string
	S3Region string
}
