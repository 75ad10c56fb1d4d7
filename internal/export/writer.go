package export

import (
	"strings"

	"golang.org/x/net/html"

	"pagebuilder/internal/sanitize"
)

// attribute is one HTML attribute. Values are escaped when written; an
// attribute with an empty name is skipped.
type attribute struct {
	name    string
	value   string
	boolean bool
}

func attr(name, value string) attribute { return attribute{name: name, value: value} }

func flag(name string, on bool) attribute {
	if !on {
		return attribute{}
	}
	return attribute{name: name, boolean: true}
}

// optional returns attr(name, value) or nothing when value is empty.
func optional(name, value string) attribute {
	if value == "" {
		return attribute{}
	}
	return attr(name, value)
}

type writer struct {
	strings.Builder
}

func (w *writer) raw(s string) { w.WriteString(s) }

// text writes s as plain escaped text, markup stripped.
func (w *writer) text(s string) { w.WriteString(sanitize.Escape(s)) }

// rich writes s through the inline-markup whitelist.
func (w *writer) rich(s string) { w.WriteString(sanitize.HTML(s)) }

func (w *writer) open(tag string, attrs ...attribute) {
	w.WriteByte('<')
	w.WriteString(tag)
	for _, a := range attrs {
		if a.name == "" {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(a.name)
		if a.boolean {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(html.EscapeString(a.value))
		w.WriteByte('"')
	}
	w.WriteByte('>')
}

func (w *writer) close(tag string) {
	w.WriteString("</")
	w.WriteString(tag)
	w.WriteByte('>')
}

// element writes <tag attrs>text</tag> with text escaped.
func (w *writer) element(tag, text string, attrs ...attribute) {
	w.open(tag, attrs...)
	w.text(text)
	w.close(tag)
}
