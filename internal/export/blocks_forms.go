package export

import (
	"fmt"
	"regexp"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

var (
	fieldTypes   = []string{"text", "email", "tel", "number", "url", "date", "textarea"}
	fieldNameBad = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
)

func fieldName(name string, i int) string {
	if n := fieldNameBad.ReplaceAllString(name, "_"); n != "" && n != "_" {
		return n
	}
	return fmt.Sprintf("field_%d", i+1)
}

// formAction returns the validated action URL, or nothing so the browser
// posts back to the page itself.
func formAction(raw string) attribute {
	if action, ok := sanitize.URL(raw); ok && action != "#" {
		return attr("action", action)
	}
	return attribute{}
}

func (r *Renderer) form(w *writer, b *domain.FormBlock) {
	if len(b.Fields) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.font(st.FontFamily)
	c.add("display", "flex")
	c.add("flex-direction", "column")
	c.add("gap", "12px")

	var label css
	label.color("color", st.LabelColor)
	label.add("display", "flex")
	label.add("flex-direction", "column")
	label.add("gap", "4px")
	label.add("font-weight", "500")

	var input css
	input.add("border", "1px solid "+sanitize.Color(st.InputBorderColor))
	input.px("border-radius", st.BorderRadius)
	input.add("padding", "10px 12px")
	input.add("font", "inherit")

	var button css
	button.color("background-color", st.ButtonColor)
	button.color("color", st.ButtonTextColor)
	button.px("border-radius", st.BorderRadius)
	button.add("border", "0")
	button.add("padding", "12px 20px")
	button.add("font", "inherit")
	button.add("font-weight", "600")
	button.add("cursor", "pointer")

	r.openBlock(w, "form", b, c, formAction(b.Action), attr("method", "post"))
	for i, f := range b.Fields {
		name := fieldName(f.Name, i)
		kind := sanitize.Keyword(f.Type, fieldTypes, "text")
		w.open("label", label.attr())
		text := f.Label
		if sanitize.Text(text) == "" {
			text = name
		}
		w.element("span", text)
		common := []attribute{
			attr("name", name),
			optional("placeholder", sanitize.Text(f.Placeholder)),
			flag("required", f.Required),
			input.attr(),
		}
		if kind == "textarea" {
			w.open("textarea", append(common, attr("rows", "4"))...)
			w.close("textarea")
		} else {
			w.open("input", append([]attribute{attr("type", kind)}, common...)...)
		}
		w.close("label")
	}
	submit := b.SubmitText
	if sanitize.Text(submit) == "" {
		submit = "Submit"
	}
	w.element("button", submit, attr("type", "submit"), button.attr())
	w.close("form")
}

func (r *Renderer) newsletter(w *writer, b *domain.NewsletterBlock) {
	st := b.Style
	var c css
	c.box(st.Box)
	c.color("background-color", st.BackgroundColor)
	c.color("color", st.TextColor)
	c.font(st.FontFamily)
	c.px("border-radius", st.BorderRadius)
	c.add("text-align", "center")

	var row css
	row.add("display", "flex")
	row.add("flex-wrap", "wrap")
	row.add("gap", "8px")
	row.add("justify-content", "center")
	row.add("margin-top", "16px")

	var input css
	input.add("flex", "1 1 220px")
	input.add("max-width", "360px")
	input.add("padding", "12px")
	input.add("border", "1px solid #d1d5db")
	input.px("border-radius", st.BorderRadius)
	input.add("font", "inherit")

	var button css
	button.color("background-color", st.ButtonColor)
	button.color("color", st.ButtonTextColor)
	button.px("border-radius", st.BorderRadius)
	button.add("border", "0")
	button.add("padding", "12px 20px")
	button.add("font", "inherit")
	button.add("font-weight", "600")

	r.openBlock(w, "div", b, c)
	if sanitize.Text(b.Heading) != "" {
		w.element("h3", b.Heading, css{{Property: "font-size", Value: "24px"}, {Property: "margin-bottom", Value: "8px"}}.attr())
	}
	if sanitize.Text(b.Description) != "" {
		w.element("p", b.Description)
	}
	w.open("form", formAction(b.Action), attr("method", "post"), row.attr())
	w.open("input",
		attr("type", "email"),
		attr("name", "email"),
		attr("aria-label", "Email address"),
		optional("placeholder", sanitize.Text(b.Placeholder)),
		flag("required", true),
		input.attr(),
	)
	text := b.ButtonText
	if sanitize.Text(text) == "" {
		text = "Subscribe"
	}
	w.element("button", text, attr("type", "submit"), button.attr())
	w.close("form")
	w.close("div")
}
