// Package sanitize cleans untrusted strings before they are interpolated
// into HTML, CSS or URL contexts. Nothing here returns an error: every
// function coerces bad input to a documented safe value.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	inlinePolicy = newInlinePolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// newInlinePolicy builds the inline-markup whitelist used for rich text
// fields: b, i, em, strong, a, p, br, ul, ol, li, span. Only href, target
// and rel survive, and only on links.
func newInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "a", "p", "br", "ul", "ol", "li", "span")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^(_blank|_self)$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-zA-Z ]+$`)).OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

// HTML strips s down to the inline-markup whitelist.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return inlinePolicy.Sanitize(s)
}

// Text strips all markup from s and returns plain, unescaped text.
// Callers escape the result for the context they write it into.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// Escape is Text followed by HTML escaping, ready for element content or
// a quoted attribute value.
func Escape(s string) string {
	return html.EscapeString(Text(s))
}
