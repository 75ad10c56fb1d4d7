package export

import (
	"fmt"
	"strings"
	"time"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

func (r *Renderer) text(w *writer, b *domain.TextBlock) {
	content := sanitize.HTML(b.Content)
	if strings.TrimSpace(sanitize.Text(content)) == "" {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.colorIf("color", st.Color)
	c.colorIf("background-color", st.BackgroundColor)
	c.font(st.FontFamily)
	c.pxIf("font-size", st.FontSize)
	c.add("font-weight", sanitize.Keyword(st.FontWeight, fontWeights, "normal"))
	c.add("line-height", number(st.LineHeight))
	c.add("text-align", align(st.TextAlign))

	r.openBlock(w, "div", b, c)
	w.raw(content)
	w.close("div")
}

func (r *Renderer) button(w *writer, b *domain.ButtonBlock) {
	if sanitize.Text(b.Text) == "" {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var outer css
	outer.box(st.Box)
	outer.add("text-align", align(st.Align))

	var c css
	if st.FullWidth {
		c.add("display", "block")
		c.add("width", "100%")
	} else {
		c.add("display", "inline-block")
	}
	c.spacing("padding", st.InnerPadding)
	c.color("background-color", st.BackgroundColor)
	c.color("color", st.TextColor)
	c.font(st.FontFamily)
	c.pxIf("font-size", st.FontSize)
	c.add("font-weight", sanitize.Keyword(st.FontWeight, fontWeights, "600"))
	c.px("border-radius", st.BorderRadius)
	c.add("text-decoration", "none")
	c.add("text-align", "center")

	r.openBlock(w, "div", b, outer)
	href, ok := sanitize.URL(b.Link)
	attrs := []attribute{attr("class", "pb-button"), c.attr()}
	if ok {
		attrs = append(attrs, attr("href", href))
		if b.NewTab {
			attrs = append(attrs, attr("target", "_blank"), attr("rel", "noopener noreferrer"))
		}
	} else {
		attrs = append(attrs, attr("role", "button"), attr("aria-disabled", "true"))
	}
	w.element("a", b.Text, attrs...)
	w.close("div")
}

var countdownLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func parseTarget(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range countdownLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// countdown renders the time left at render time. Exported pages carry no
// script, so the numbers are static; the <time> element keeps the target.
func (r *Renderer) countdown(w *writer, b *domain.CountdownBlock) {
	target, ok := parseTarget(b.TargetDate)
	if !ok {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.color("background-color", st.BackgroundColor)
	c.font(st.FontFamily)
	c.px("border-radius", st.BorderRadius)
	c.add("text-align", align(st.Align))

	var label css
	label.color("color", st.LabelColor)

	r.openBlock(w, "div", b, c)
	left := target.Sub(r.opts.Now())
	if left <= 0 {
		w.element("p", b.ExpiredText, attr("class", "pb-countdown-expired"), label.attr())
		w.close("div")
		return
	}
	if b.Label != "" {
		w.element("p", b.Label, attr("class", "pb-countdown-label"), label.attr())
	}

	var units css
	units.add("display", "flex")
	units.add("gap", "16px")
	units.add("justify-content", justify(st.Align))

	var digit css
	digit.add("display", "block")
	digit.color("color", st.DigitColor)
	digit.pxIf("font-size", st.FontSize)
	digit.add("font-variant-numeric", "tabular-nums")

	total := int(left / time.Second)
	parts := []struct {
		n    int
		unit string
	}{
		{total / 86400, "days"},
		{total % 86400 / 3600, "hours"},
		{total % 3600 / 60, "minutes"},
		{total % 60, "seconds"},
	}
	w.open("time", attr("class", "pb-countdown-units"), attr("datetime", target.UTC().Format(time.RFC3339)), units.attr())
	for _, p := range parts {
		w.open("span", attr("class", "pb-countdown-unit"))
		w.element("strong", fmt.Sprintf("%02d", p.n), digit.attr())
		w.element("small", p.unit, label.attr())
		w.close("span")
	}
	w.close("time")
	w.close("div")
}

func (r *Renderer) space(w *writer, b *domain.SpaceBlock) {
	var c css
	c.box(b.Style.Box)
	c.px("height", b.Height)
	r.openBlock(w, "div", b, c, attr("aria-hidden", "true"))
	w.close("div")
}

func (r *Renderer) divider(w *writer, b *domain.DividerBlock) {
	st := b.Style
	var outer css
	outer.box(st.Box)

	var line css
	line.add("border", "0")
	line.add("border-top", fmt.Sprintf("%dpx %s %s",
		max(st.Thickness, 0), sanitize.Keyword(st.LineStyle, lineStyles, "solid"), sanitize.Color(st.Color)))
	line.add("width", dimension(st.Width, "100%"))
	line.add("margin", "0 auto")

	r.openBlock(w, "div", b, outer)
	w.open("hr", line.attr())
	w.close("div")
}

func (r *Renderer) icon(w *writer, b *domain.IconBlock) {
	if sanitize.Text(b.Icon) == "" {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("text-align", align(st.Align))

	var g css
	g.pxIf("font-size", st.Size)
	g.color("color", st.Color)
	g.add("line-height", "1")

	r.openBlock(w, "div", b, c)
	href, linked := sanitize.URL(b.Link)
	if linked {
		w.open("a", attr("href", href), attr("class", "pb-icon-link"))
	}
	label := b.Label
	if sanitize.Text(label) == "" {
		label = b.Icon
	}
	w.element("span", b.Icon, attr("class", "pb-icon"), attr("role", "img"), attr("aria-label", sanitize.Text(label)), g.attr())
	if linked {
		w.close("a")
	}
	w.close("div")
}

func (r *Renderer) quote(w *writer, b *domain.QuoteBlock) {
	if sanitize.Text(b.Text) == "" {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("border-left", "4px solid "+sanitize.Color(st.AccentColor))
	c.color("color", st.TextColor)
	c.font(st.FontFamily)
	c.add("text-align", align(st.Align))

	var t css
	t.pxIf("font-size", st.FontSize)
	t.add("font-style", "italic")

	r.openBlock(w, "blockquote", b, c)
	w.element("p", b.Text, t.attr())
	hasAuthor, hasSource := sanitize.Text(b.Author) != "", sanitize.Text(b.Source) != ""
	if hasAuthor || hasSource {
		w.open("footer", css{{Property: "margin-top", Value: "8px"}}.attr())
		w.raw("&#8212; ")
		w.text(b.Author)
		if hasSource {
			if hasAuthor {
				w.raw(", ")
			}
			w.element("cite", b.Source)
		}
		w.close("footer")
	}
	w.close("blockquote")
}
