package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLConverter_Title(t *testing.T) {
	converter := NewConverter()

	t.Run("present", func(t *testing.T) {
		title := converter.Title("<html><head><title>Hello</title></head><body></body></html>")
		assert.Equal(t, "Hello", title)
	})

	t.Run("case insensitive", func(t *testing.T) {
		title := converter.Title("<HTML><HEAD><TITLE>Loud</TITLE></HEAD></HTML>")
		assert.Equal(t, "Loud", title)
	})

	t.Run("first match wins", func(t *testing.T) {
		title := converter.Title("<title>First</title><title>Second</title>")
		assert.Equal(t, "First", title)
	})

	t.Run("absent", func(t *testing.T) {
		title := converter.Title("<html><body><h1>No title here</h1></body></html>")
		assert.Equal(t, "", title)
	})

	t.Run("trimmed", func(t *testing.T) {
		title := converter.Title("<title>\n  Padded  \n</title>")
		assert.Equal(t, "Padded", title)
	})
}

func TestHTMLConverter_Text(t *testing.T) {
	converter := NewConverter()

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", converter.Text(""))
		assert.Equal(t, "", converter.Text("   \r\n  "))
	})

	t.Run("non-trivial html is non-empty", func(t *testing.T) {
		html := `<html><body>
			<h1>Welcome</h1>
			<p>Some <b>bold</b> text and a <a href="https://x.example">link</a>.</p>
		</body></html>`

		text := converter.Text(html)
		assert.NotEmpty(t, text)
		assert.Contains(t, text, "Welcome")
		assert.Contains(t, text, "bold")
	})

	t.Run("scripts and styles stripped", func(t *testing.T) {
		html := `<html><body>
			<script>var secret = "nope";</script>
			<style>.hidden { display: none }</style>
			<p>visible</p>
		</body></html>`

		text := converter.Text(html)
		assert.Contains(t, text, "visible")
		assert.NotContains(t, text, "secret")
		assert.NotContains(t, text, "display")
	})
}
