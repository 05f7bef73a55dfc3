package satbrowse

import (
	"net/url"
	"strings"
)

// FindURLs extracts absolute URLs from freeform message body text. The body
// is split on CRLF line breaks and each trimmed line is kept when it parses
// as an absolute URL. Everything else is silently dropped: bodies are
// expected to mix URLs with signatures and other freeform text. Order
// follows line order and duplicates are preserved.
func FindURLs(text string) []string {
	var urls []string

	for _, line := range strings.Split(text, "\r\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		u, err := url.Parse(line)
		if err != nil || !u.IsAbs() || u.Host == "" {
			continue
		}

		urls = append(urls, line)
	}

	return urls
}
