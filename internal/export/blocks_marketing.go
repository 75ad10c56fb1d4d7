package export

import (
	"fmt"
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

func (r *Renderer) faq(w *writer, b *domain.FAQBlock) {
	var items []domain.FAQItem
	for _, it := range b.Items {
		if sanitize.Text(it.Question) != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.font(st.FontFamily)

	var q css
	q.color("color", st.QuestionColor)
	q.pxIf("font-size", st.QuestionSize)
	q.add("font-weight", "600")
	q.add("padding", "12px 0")

	var a css
	a.color("color", st.AnswerColor)
	a.add("padding-bottom", "12px")

	var item css
	item.add("border-bottom", "1px solid "+sanitize.Color(st.DividerColor))

	r.openBlock(w, "div", b, c)
	if sanitize.Text(b.Title) != "" {
		w.element("h3", b.Title, css{{Property: "margin-bottom", Value: "12px"}, {Property: "color", Value: sanitize.Color(st.QuestionColor)}}.attr())
	}
	for _, it := range items {
		w.open("details", attr("class", "pb-faq-item"), item.attr())
		w.element("summary", it.Question, q.attr())
		w.open("div", attr("class", "pb-faq-answer"), a.attr())
		w.rich(it.Answer)
		w.close("div")
		w.close("details")
	}
	w.close("div")
}

func (r *Renderer) accordion(w *writer, b *domain.AccordionBlock) {
	var items []domain.AccordionItem
	for _, it := range b.Items {
		if sanitize.Text(it.Title) != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.font(st.FontFamily)

	var item css
	item.add("border", "1px solid "+sanitize.Color(st.BorderColor))
	item.add("margin-bottom", "-1px")

	var head css
	head.color("color", st.HeaderColor)
	head.color("background-color", st.HeaderBackground)
	head.add("padding", "12px 16px")
	head.add("font-weight", "600")

	var body css
	body.color("color", st.ContentColor)
	body.add("padding", "12px 16px")

	r.openBlock(w, "div", b, c)
	for _, it := range items {
		w.open("details", attr("class", "pb-accordion-item"), item.attr())
		w.element("summary", it.Title, head.attr())
		w.open("div", body.attr())
		w.rich(it.Content)
		w.close("div")
		w.close("details")
	}
	w.close("div")
}

var platformLabels = map[string]string{
	"facebook":  "Facebook",
	"instagram": "Instagram",
	"x":         "X",
	"twitter":   "Twitter",
	"linkedin":  "LinkedIn",
	"youtube":   "YouTube",
	"tiktok":    "TikTok",
	"github":    "GitHub",
	"pinterest": "Pinterest",
	"threads":   "Threads",
	"email":     "Email",
}

func platformLabel(p string) string {
	if l, ok := platformLabels[strings.ToLower(strings.TrimSpace(p))]; ok {
		return l
	}
	if sanitize.Text(p) != "" {
		return p
	}
	return "Link"
}

func (r *Renderer) social(w *writer, b *domain.SocialBlock) {
	type link struct{ href, label string }
	var links []link
	for _, l := range b.Links {
		if href, ok := sanitize.URL(l.URL); ok {
			links = append(links, link{href, platformLabel(l.Platform)})
		}
	}
	if len(links) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("display", "flex")
	c.add("flex-wrap", "wrap")
	c.px("gap", st.Gap)
	c.add("justify-content", justify(st.Align))

	var a css
	a.color("color", st.Color)
	a.pxIf("font-size", st.IconSize/2+6)
	a.add("text-decoration", "none")
	a.add("font-weight", "600")

	r.openBlock(w, "nav", b, c, attr("aria-label", "Social links"))
	for _, l := range links {
		w.element("a", l.label, attr("href", l.href), attr("target", "_blank"), attr("rel", "noopener noreferrer"), a.attr())
	}
	w.close("nav")
}

func (r *Renderer) testimonial(w *writer, b *domain.TestimonialBlock) {
	if sanitize.Text(b.Quote) == "" {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.color("background-color", st.BackgroundColor)
	c.color("color", st.TextColor)
	c.font(st.FontFamily)
	c.px("border-radius", st.BorderRadius)

	r.openBlock(w, "figure", b, c)
	if stars := max(0, min(b.Rating, 5)); stars > 0 {
		w.element("div", strings.Repeat("★", stars)+strings.Repeat("☆", 5-stars),
			attr("class", "pb-rating"),
			attr("aria-label", fmt.Sprintf("%d out of 5", stars)),
			css{{Property: "color", Value: sanitize.Color(st.AccentColor)}, {Property: "margin-bottom", Value: "8px"}}.attr())
	}
	w.open("blockquote", css{{Property: "font-size", Value: "18px"}}.attr())
	w.text(b.Quote)
	w.close("blockquote")

	w.open("figcaption", css{{Property: "display", Value: "flex"}, {Property: "align-items", Value: "center"}, {Property: "gap", Value: "12px"}, {Property: "margin-top", Value: "16px"}}.attr())
	if avatar, ok := sanitize.ImageURL(b.AvatarURL); ok {
		w.open("img", attr("src", avatar), attr("alt", sanitize.Text(b.Author)), attr("loading", "lazy"),
			css{{Property: "width", Value: "48px"}, {Property: "height", Value: "48px"}, {Property: "border-radius", Value: "50%"}, {Property: "object-fit", Value: "cover"}}.attr())
	}
	w.open("span")
	w.element("strong", b.Author, css{{Property: "display", Value: "block"}}.attr())
	if sanitize.Text(b.Role) != "" {
		w.element("small", b.Role)
	}
	w.close("span")
	w.close("figcaption")
	w.close("figure")
}

func (r *Renderer) feature(w *writer, b *domain.FeatureBlock) {
	if sanitize.Text(b.Title) == "" && sanitize.Text(b.Description) == "" {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.font(st.FontFamily)
	c.add("text-align", align(st.Align))

	r.openBlock(w, "div", b, c)
	if sanitize.Text(b.Icon) != "" {
		w.element("div", b.Icon, attr("class", "pb-feature-icon"), attr("aria-hidden", "true"),
			css{{Property: "font-size", Value: "32px"}, {Property: "color", Value: sanitize.Color(st.IconColor)}, {Property: "margin-bottom", Value: "8px"}}.attr())
	}
	if sanitize.Text(b.Title) != "" {
		w.element("h3", b.Title, css{{Property: "color", Value: sanitize.Color(st.TitleColor)}, {Property: "margin-bottom", Value: "4px"}}.attr())
	}
	if sanitize.Text(b.Description) != "" {
		w.element("p", b.Description, css{{Property: "color", Value: sanitize.Color(st.TextColor)}}.attr())
	}
	w.close("div")
}

func (r *Renderer) pricing(w *writer, b *domain.PricingBlock) {
	if len(b.Tiers) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	accent := sanitize.Color(st.AccentColor)

	var c css
	c.box(st.Box)
	c.add("display", "grid")
	c.add("grid-template-columns", "repeat(auto-fit,minmax(220px,1fr))")
	c.add("gap", "16px")
	c.font(st.FontFamily)
	c.color("color", st.TextColor)

	r.openBlock(w, "div", b, c)
	for _, t := range b.Tiers {
		var card css
		card.color("background-color", st.BackgroundColor)
		border := sanitize.Color(st.BorderColor)
		if t.Highlighted {
			border = accent
		}
		card.add("border", "2px solid "+border)
		card.px("border-radius", st.BorderRadius)
		card.add("padding", "24px")
		card.add("display", "flex")
		card.add("flex-direction", "column")
		card.add("gap", "12px")

		class := "pb-tier"
		if t.Highlighted {
			class += " pb-tier-highlighted"
		}
		w.open("div", attr("class", class), card.attr())
		w.element("h3", t.Name)
		w.open("p", attr("class", "pb-price"))
		w.element("strong", t.Price, css{{Property: "font-size", Value: "32px"}, {Property: "color", Value: accent}}.attr())
		if sanitize.Text(t.Period) != "" {
			w.raw(" / ")
			w.text(t.Period)
		}
		w.close("p")
		if len(t.Features) > 0 {
			w.open("ul", css{{Property: "padding-left", Value: "18px"}}.attr())
			for _, f := range t.Features {
				w.element("li", f)
			}
			w.close("ul")
		}
		if sanitize.Text(t.CTAText) != "" {
			var btn css
			btn.add("display", "block")
			btn.add("text-align", "center")
			btn.add("padding", "10px 16px")
			btn.add("background-color", accent)
			btn.add("color", "#ffffff")
			btn.add("border-radius", "6px")
			btn.add("text-decoration", "none")
			btn.add("margin-top", "auto")
			attrs := []attribute{attr("class", "pb-button"), btn.attr()}
			if href, ok := sanitize.URL(t.CTALink); ok {
				attrs = append(attrs, attr("href", href))
			}
			w.element("a", t.CTAText, attrs...)
		}
		w.close("div")
	}
	w.close("div")
}

func (r *Renderer) stats(w *writer, b *domain.StatsBlock) {
	if len(b.Items) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("display", "grid")
	c.add("grid-template-columns", gridColumns(st.Columns, 3))
	c.add("gap", "16px")
	c.font(st.FontFamily)
	c.add("text-align", "center")

	var value css
	value.add("display", "block")
	value.add("font-size", "36px")
	value.add("font-weight", "700")
	value.color("color", st.ValueColor)

	var label css
	label.color("color", st.LabelColor)

	r.openBlock(w, "div", b, c)
	for _, it := range b.Items {
		w.open("div", attr("class", "pb-stat"))
		w.element("strong", it.Value, value.attr())
		w.element("span", it.Label, label.attr())
		w.close("div")
	}
	w.close("div")
}

func (r *Renderer) team(w *writer, b *domain.TeamBlock) {
	if len(b.Members) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("display", "grid")
	c.add("grid-template-columns", gridColumns(st.Columns, 3))
	c.add("gap", "24px")
	c.font(st.FontFamily)
	c.add("text-align", "center")

	radius := "8px"
	if sanitize.Keyword(st.PhotoShape, []string{"circle", "square", "rounded"}, "circle") == "circle" {
		radius = "50%"
	}
	var photo css
	photo.add("width", "120px")
	photo.add("height", "120px")
	photo.add("object-fit", "cover")
	photo.add("border-radius", radius)
	photo.add("margin", "0 auto 12px")

	r.openBlock(w, "div", b, c)
	for _, m := range b.Members {
		w.open("div", attr("class", "pb-member"))
		if src, ok := sanitize.ImageURL(m.PhotoURL); ok {
			w.open("img", attr("src", src), attr("alt", sanitize.Text(m.Name)), attr("loading", "lazy"), photo.attr())
		}
		w.element("h4", m.Name, css{{Property: "color", Value: sanitize.Color(st.NameColor)}}.attr())
		if sanitize.Text(m.Role) != "" {
			w.element("p", m.Role, css{{Property: "color", Value: sanitize.Color(st.RoleColor)}}.attr())
		}
		if sanitize.Text(m.Bio) != "" {
			w.element("p", m.Bio, css{{Property: "font-size", Value: "14px"}, {Property: "margin-top", Value: "8px"}}.attr())
		}
		w.close("div")
	}
	w.close("div")
}
