package fetch

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// StripHTML converts an HTML fragment to normalized plain text.
// Board APIs return descriptions as HTML bodies; the filters operate on text.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Fall back to a crude tag strip when the fragment is unparseable.
		return cleanWhitespace(regexp.MustCompile(`<[^>]*>`).ReplaceAllString(html, " "))
	}

	doc.Find("script, style, noscript").Remove()
	return cleanWhitespace(doc.Text())
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Truncate returns s capped at max bytes, backing off to a rune boundary
// so the cut never splits a multi-byte character. Descriptions are stored
// truncated but filtered on their full text first.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
