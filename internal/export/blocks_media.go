package export

import (
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

const iframeAllow = "accelerometer; encrypted-media; gyroscope; picture-in-picture; fullscreen"

func (r *Renderer) image(w *writer, b *domain.ImageBlock) {
	src, ok := sanitize.ImageURL(b.Src)
	if !ok {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("text-align", align(st.Align))

	var img css
	img.add("display", "inline-block")
	img.add("width", dimension(st.Width, "100%"))
	img.add("height", dimension(st.Height, "auto"))
	img.add("object-fit", sanitize.Keyword(st.ObjectFit, objectFits, "cover"))
	img.px("border-radius", st.BorderRadius)

	r.openBlock(w, "figure", b, c)
	href, linked := sanitize.URL(b.Link)
	if linked {
		w.open("a", attr("href", href))
	}
	w.open("img", attr("src", src), attr("alt", sanitize.Text(b.Alt)), attr("loading", "lazy"), img.attr())
	if linked {
		w.close("a")
	}
	w.close("figure")
}

// video renders a <video> for direct files and a sandboxed iframe with a
// canonical embed URL for hosted providers.
func (r *Renderer) video(w *writer, b *domain.VideoBlock) {
	src, provider, ok := mediaSource(b.URL, b.Provider)
	if !ok {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)

	var frame css
	frame.add("width", dimension(st.Width, "100%"))
	frame.add("aspect-ratio", aspectRatio(st.AspectRatio))
	frame.px("border-radius", st.BorderRadius)
	frame.add("border", "0")

	r.openBlock(w, "div", b, c)
	if provider == sanitize.ProviderDirect {
		attrs := []attribute{
			attr("src", src),
			flag("controls", b.Controls),
			flag("autoplay", b.Autoplay),
			flag("muted", b.Muted || b.Autoplay),
			flag("loop", b.Loop),
			flag("playsinline", true),
			attr("preload", "metadata"),
			frame.attr(),
		}
		if poster, ok := sanitize.ImageURL(b.Poster); ok {
			attrs = append(attrs, attr("poster", poster))
		}
		w.open("video", attrs...)
		w.close("video")
	} else {
		r.iframe(w, src, "Video", frame)
	}
	w.close("div")
}

func (r *Renderer) embed(w *writer, b *domain.EmbedBlock) {
	src, provider, ok := mediaSource(b.URL, b.Provider)
	if !ok {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)

	var frame css
	frame.add("width", dimension(st.Width, "100%"))
	frame.add("aspect-ratio", aspectRatio(st.AspectRatio))
	frame.px("border-radius", st.BorderRadius)
	frame.add("border", "0")

	title := sanitize.Text(b.Title)
	if title == "" {
		title = "Embedded content"
	}
	r.openBlock(w, "div", b, c)
	if provider == sanitize.ProviderDirect {
		w.open("video", attr("src", src), flag("controls", true), attr("preload", "metadata"), frame.attr())
		w.close("video")
	} else {
		r.iframe(w, src, title, frame)
	}
	w.close("div")
}

// mediaSource canonicalizes raw for the named provider, detecting the
// provider from the URL when none is named.
func mediaSource(raw, name string) (string, sanitize.Provider, bool) {
	provider := sanitize.Provider(strings.ToLower(strings.TrimSpace(name)))
	if provider == sanitize.ProviderAuto {
		provider = sanitize.DetectProvider(raw)
	}
	src, ok := sanitize.EmbedURL(raw, provider)
	return src, provider, ok
}

func (r *Renderer) iframe(w *writer, src, title string, style css) {
	w.open("iframe",
		attr("src", src),
		attr("title", title),
		attr("sandbox", sanitize.IframeSandbox),
		attr("allow", iframeAllow),
		attr("referrerpolicy", "strict-origin-when-cross-origin"),
		attr("loading", "lazy"),
		flag("allowfullscreen", true),
		style.attr(),
	)
	w.close("iframe")
}

func (r *Renderer) gallery(w *writer, b *domain.GalleryBlock) {
	type shot struct{ src, alt, caption string }
	var shots []shot
	for _, img := range b.Images {
		if src, ok := sanitize.ImageURL(img.Src); ok {
			shots = append(shots, shot{src, sanitize.Text(img.Alt), img.Caption})
		}
	}
	if len(shots) == 0 {
		r.placeholder(w, b)
		return
	}
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("display", "grid")
	c.add("grid-template-columns", gridColumns(st.Columns, 3))
	c.px("gap", st.Gap)

	var img css
	img.add("width", "100%")
	img.add("height", "100%")
	img.add("object-fit", "cover")
	img.px("border-radius", st.BorderRadius)

	r.openBlock(w, "div", b, c)
	for _, s := range shots {
		w.open("figure")
		w.open("img", attr("src", s.src), attr("alt", s.alt), attr("loading", "lazy"), img.attr())
		if sanitize.Text(s.caption) != "" {
			w.element("figcaption", s.caption, css{{Property: "font-size", Value: "14px"}}.attr())
		}
		w.close("figure")
	}
	w.close("div")
}

func (r *Renderer) logoGrid(w *writer, b *domain.LogoGridBlock) {
	st := b.Style
	var c css
	c.box(st.Box)
	c.add("display", "grid")
	c.add("grid-template-columns", gridColumns(st.Columns, 4))
	c.px("gap", st.Gap)
	c.add("align-items", "center")
	c.add("justify-items", "center")

	var img css
	img.pxIf("height", st.LogoHeight)
	img.add("width", "auto")
	img.add("object-fit", "contain")
	if st.Grayscale {
		img.add("filter", "grayscale(100%)")
	}

	rendered := 0
	for _, l := range b.Logos {
		src, ok := sanitize.ImageURL(l.Src)
		if !ok {
			continue
		}
		if rendered == 0 {
			r.openBlock(w, "div", b, c)
		}
		rendered++
		href, linked := sanitize.URL(l.Link)
		if linked {
			w.open("a", attr("href", href), attr("target", "_blank"), attr("rel", "noopener noreferrer"))
		}
		w.open("img", attr("src", src), attr("alt", sanitize.Text(l.Alt)), attr("loading", "lazy"), img.attr())
		if linked {
			w.close("a")
		}
	}
	if rendered == 0 {
		r.placeholder(w, b)
		return
	}
	w.close("div")
}
