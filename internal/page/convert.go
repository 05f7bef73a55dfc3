package page

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	satbrowse "github.com/psagers/sat-browse"
)

// noiseSelectors are HTML elements removed before text conversion.
// These contribute no meaningful content to a plain-text email.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"img", "picture", "svg", "canvas",
	"iframe", "video", "audio",
	"form", "button", "input", "select", "textarea",
}

// Compile-time interface check
var _ satbrowse.Converter = (*HTMLConverter)(nil)

// HTMLConverter reduces HTML to a title and a readable plain-text rendering.
// Rendering fidelity is not a goal: tags are stripped and structure is
// collapsed into markdown-style text.
type HTMLConverter struct{}

// NewConverter creates an HTMLConverter.
func NewConverter() *HTMLConverter {
	return &HTMLConverter{}
}

// Title returns the trimmed content of the document's first <title>
// element, or "" when the document has none. Tag matching is
// case-insensitive via the HTML parser.
func (c *HTMLConverter) Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Text converts an HTML document into a plain-text rendering. Noise
// elements are stripped first, then the remaining document is collapsed to
// markdown. Empty input yields empty output.
func (c *HTMLConverter) Text(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// The parser guarantees a <body> even for fragments.
	body := doc.Find("body").First()
	cleaned, err := goquery.OuterHtml(body)
	if err != nil {
		return normalizeWhitespace(body.Text())
	}

	markdown, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return normalizeWhitespace(body.Text())
	}

	return strings.TrimSpace(markdown)
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
