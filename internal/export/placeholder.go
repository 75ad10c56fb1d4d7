package export

import "pagebuilder/internal/domain"

var placeholderText = map[domain.BlockType]string{
	domain.BlockText:        "Empty text",
	domain.BlockImage:       "No image",
	domain.BlockVideo:       "Unsupported or missing video URL",
	domain.BlockButton:      "Button without label",
	domain.BlockCountdown:   "Countdown without a valid date",
	domain.BlockFAQ:         "No questions yet",
	domain.BlockIcon:        "No icon",
	domain.BlockSocial:      "No social links",
	domain.BlockTestimonial: "Empty testimonial",
	domain.BlockFeature:     "Empty feature",
	domain.BlockPricing:     "No pricing tiers",
	domain.BlockForm:        "Form without fields",
	domain.BlockAccordion:   "No accordion items",
	domain.BlockQuote:       "Empty quote",
	domain.BlockStats:       "No stats",
	domain.BlockTeam:        "No team members",
	domain.BlockGallery:     "No images",
	domain.BlockLogoGrid:    "No logos",
	domain.BlockEmbed:       "Unsupported or missing embed URL",
}

// placeholder stands in for a block whose required content is missing or
// was rejected. Output depends only on the block's type and ID.
func (r *Renderer) placeholder(w *writer, b domain.Block) {
	msg, ok := placeholderText[b.BlockType()]
	if !ok {
		msg = "Nothing to show"
	}
	w.open("div",
		attr("class", "pb-block pb-placeholder"),
		attr("data-placeholder", string(b.BlockType())),
		r.annotation("data-block-id", b.BlockID()),
	)
	w.text(msg)
	w.close("div")
}
