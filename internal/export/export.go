// Package export renders a page into a standalone HTML document. Every
// string taken from the model passes through the sanitize package on its
// way out; the output never contains a script.
package export

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

type Options struct {
	// Minify runs the finished document through the HTML minifier.
	Minify bool
	// Annotate adds data-page-id, data-section-id and data-block-id
	// attributes for the live editable view.
	Annotate bool
	// Now is the clock countdowns are rendered against.
	Now func() time.Time
	Log *zap.Logger
}

// Renderer is safe for concurrent use.
type Renderer struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options) *Renderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{opts: opts, log: log.Named("export")}
}

// Render renders p with default options.
func Render(p *domain.Page) string {
	return New(Options{}).Render(p)
}

// ContentSecurityPolicy is the policy carried by every exported document.
// Scripts are never allowed; frames only from the embed providers.
func ContentSecurityPolicy() string {
	return strings.Join([]string{
		"default-src 'none'",
		"script-src 'none'",
		"object-src 'none'",
		"base-uri 'none'",
		"style-src 'unsafe-inline'",
		"img-src 'self' https: http: data:",
		"media-src 'self' https: http:",
		"font-src 'self' https:",
		"form-action 'self' https: http:",
		"frame-src " + strings.Join(sanitize.FrameSources(), " "),
	}, "; ")
}

// cssReset is the inline stylesheet every exported page starts from.
const cssReset = `*,*::before,*::after{box-sizing:border-box}` +
	`html,body{margin:0;padding:0}` +
	`body{font-family:` + sanitize.SystemFontStack + `;line-height:1.5;color:#111827;-webkit-font-smoothing:antialiased}` +
	`img,video,iframe{display:block;max-width:100%}` +
	`h1,h2,h3,h4,p,figure,blockquote,ul,ol{margin:0}` +
	`a{color:inherit}` +
	`details>summary{cursor:pointer}` +
	`.pb-placeholder{display:flex;align-items:center;justify-content:center;min-height:80px;padding:16px;border:2px dashed #d1d5db;color:#6b7280;font-size:14px;background:#f9fafb}`

// Render returns the complete HTML document for p. A nil page renders an
// empty document.
func (r *Renderer) Render(p *domain.Page) string {
	if p == nil {
		p = &domain.Page{}
	}
	w := &writer{}
	w.raw("<!DOCTYPE html>\n")
	w.raw(`<html lang="en"><head><meta charset="utf-8">`)
	w.open("meta", attr("http-equiv", "Content-Security-Policy"), attr("content", ContentSecurityPolicy()))
	w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.raw(`<meta name="generator" content="pagebuilder">`)
	title := p.Name
	if sanitize.Text(title) == "" {
		title = "Untitled"
	}
	w.open("title")
	w.text(title)
	w.close("title")
	w.raw("<style>" + cssReset + "</style></head>\n")

	w.open("body", r.annotation("data-page-id", p.ID))
	for i := range p.Sections {
		r.section(w, &p.Sections[i])
	}
	w.raw("</body></html>\n")

	out := w.String()
	if r.opts.Minify {
		out = r.minify(out)
	}
	return out
}

// RenderSection renders one section as an HTML fragment.
func (r *Renderer) RenderSection(s domain.Section) string {
	w := &writer{}
	r.section(w, &s)
	return w.String()
}

// RenderBlock renders one block as an HTML fragment.
func (r *Renderer) RenderBlock(b domain.Block) string {
	w := &writer{}
	r.block(w, b)
	return w.String()
}

func (r *Renderer) annotation(name, id string) attribute {
	if !r.opts.Annotate || id == "" {
		return attribute{}
	}
	return attr(name, id)
}
