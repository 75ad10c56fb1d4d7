package export

import (
	"fmt"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/layout"
	"pagebuilder/internal/sanitize"
)

// section writes <section> with the background and box model, an inner
// container carrying the resolved layout, and one item per block.
func (r *Renderer) section(w *writer, s *domain.Section) {
	st := s.Style

	var outer css
	outer.box(st.Box)
	outer.color("background-color", st.BackgroundColor)
	if bg, ok := sanitize.ImageURL(st.BackgroundImage); ok {
		outer.add("background-image", cssURL(bg))
		outer.add("background-size", sanitize.Keyword(st.BackgroundSize, bgSizes, "cover"))
		outer.add("background-position", sanitize.Keyword(st.BackgroundPosition, bgPositions, "center"))
		outer.add("background-repeat", sanitize.Keyword(st.BackgroundRepeat, bgRepeats, "no-repeat"))
	}

	in := layout.Resolve(st, s.Layout, s.Columns)
	var inner css
	if st.MaxWidth > 0 {
		inner.add("max-width", fmt.Sprintf("%dpx", st.MaxWidth))
	}
	inner.add("margin", "0 auto")
	inner.addAll(in.Declarations())

	item := css(in.ItemDeclarations())

	w.open("section",
		attr("class", "pb-section pb-"+string(in.Mode)),
		r.annotation("data-section-id", s.ID),
		outer.attr(),
	)
	w.open("div", attr("class", "pb-container"), inner.attr())
	for _, b := range s.Blocks {
		if b == nil {
			continue
		}
		w.open("div", attr("class", "pb-item"), item.attr())
		r.block(w, b)
		w.close("div")
	}
	w.close("div")
	w.close("section")
	w.raw("\n")
}

// block dispatches to the renderer for b's variant. A variant without a
// renderer is a programming error.
func (r *Renderer) block(w *writer, b domain.Block) {
	switch b := b.(type) {
	case *domain.TextBlock:
		r.text(w, b)
	case *domain.ImageBlock:
		r.image(w, b)
	case *domain.VideoBlock:
		r.video(w, b)
	case *domain.ButtonBlock:
		r.button(w, b)
	case *domain.CountdownBlock:
		r.countdown(w, b)
	case *domain.FAQBlock:
		r.faq(w, b)
	case *domain.SpaceBlock:
		r.space(w, b)
	case *domain.DividerBlock:
		r.divider(w, b)
	case *domain.IconBlock:
		r.icon(w, b)
	case *domain.SocialBlock:
		r.social(w, b)
	case *domain.TestimonialBlock:
		r.testimonial(w, b)
	case *domain.FeatureBlock:
		r.feature(w, b)
	case *domain.PricingBlock:
		r.pricing(w, b)
	case *domain.FormBlock:
		r.form(w, b)
	case *domain.AccordionBlock:
		r.accordion(w, b)
	case *domain.QuoteBlock:
		r.quote(w, b)
	case *domain.StatsBlock:
		r.stats(w, b)
	case *domain.TeamBlock:
		r.team(w, b)
	case *domain.GalleryBlock:
		r.gallery(w, b)
	case *domain.LogoGridBlock:
		r.logoGrid(w, b)
	case *domain.EmbedBlock:
		r.embed(w, b)
	case *domain.NewsletterBlock:
		r.newsletter(w, b)
	default:
		panic(fmt.Sprintf("export: unhandled block variant %T", b))
	}
}

// openBlock writes the wrapper every block renderer starts with.
func (r *Renderer) openBlock(w *writer, tag string, b domain.Block, style css, attrs ...attribute) {
	all := []attribute{
		attr("class", "pb-block pb-"+string(b.BlockType())),
		r.annotation("data-block-id", b.BlockID()),
		style.attr(),
	}
	w.open(tag, append(all, attrs...)...)
}
