package satbrowse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindURLs_MixedText(t *testing.T) {
	body := "https://a.example\r\nnot a url\r\nhttps://b.example"

	urls := FindURLs(body)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestFindURLs_Empty(t *testing.T) {
	assert.Empty(t, FindURLs(""))
	assert.Empty(t, FindURLs("\r\n\r\n"))
	assert.Empty(t, FindURLs("just some prose\r\nand a signature"))
}

func TestFindURLs_PreservesOrderAndDuplicates(t *testing.T) {
	body := "https://b.example/page\r\nhttps://a.example\r\nhttps://b.example/page"

	urls := FindURLs(body)
	assert.Equal(t, []string{
		"https://b.example/page",
		"https://a.example",
		"https://b.example/page",
	}, urls)
}

func TestFindURLs_TrimsWhitespace(t *testing.T) {
	urls := FindURLs("  https://a.example/path?q=1  \r\n")
	assert.Equal(t, []string{"https://a.example/path?q=1"}, urls)
}

func TestFindURLs_RejectsRelativeAndSchemeless(t *testing.T) {
	body := "/relative/path\r\nexample.com\r\nftp://files.example/pub"

	// Relative paths and bare hostnames are not absolute URLs; any
	// absolute URL is kept regardless of scheme.
	urls := FindURLs(body)
	assert.Equal(t, []string{"ftp://files.example/pub"}, urls)
}
