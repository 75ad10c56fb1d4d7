package domain

import (
	"errors"
	"fmt"
)

type BlockType string

const (
	BlockText        BlockType = "text"
	BlockImage       BlockType = "image"
	BlockVideo       BlockType = "video"
	BlockButton      BlockType = "button"
	BlockCountdown   BlockType = "countdown"
	BlockFAQ         BlockType = "faq"
	BlockSpace       BlockType = "space"
	BlockDivider     BlockType = "divider"
	BlockIcon        BlockType = "icon"
	BlockSocial      BlockType = "social"
	BlockTestimonial BlockType = "testimonial"
	BlockFeature     BlockType = "feature"
	BlockPricing     BlockType = "pricing"
	BlockForm        BlockType = "form"
	BlockAccordion   BlockType = "accordion"
	BlockQuote       BlockType = "quote"
	BlockStats       BlockType = "stats"
	BlockTeam        BlockType = "team"
	BlockGallery     BlockType = "gallery"
	BlockLogoGrid    BlockType = "logo-grid"
	BlockEmbed       BlockType = "embed"
	BlockNewsletter  BlockType = "newsletter"
)

var (
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrNilBlock         = errors.New("nil block")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrInvalid          = errors.New("invalid document")
)

// Block is the closed set of content variants a Section can hold. Only the
// types in this package implement it.
type Block interface {
	BlockID() string
	SetBlockID(id string)
	BlockType() BlockType
	Clone() Block
	base() *Base
}

// Base carries the fields every variant shares. Variants embed it.
type Base struct {
	ID   string    `json:"id" validate:"required"`
	Type BlockType `json:"type" validate:"required"`
}

func (b *Base) BlockID() string      { return b.ID }
func (b *Base) SetBlockID(id string) { b.ID = id }
func (b *Base) BlockType() BlockType { return b.Type }
func (b *Base) base() *Base          { return b }

// variants maps every block type to its constructor. seed fills in the
// placeholder content a freshly added block starts with; decoding uses the
// unseeded form so only styles carry defaults.
var variants = map[BlockType]func(seed bool) Block{
	BlockText:        newTextBlock,
	BlockImage:       newImageBlock,
	BlockVideo:       newVideoBlock,
	BlockButton:      newButtonBlock,
	BlockCountdown:   newCountdownBlock,
	BlockFAQ:         newFAQBlock,
	BlockSpace:       newSpaceBlock,
	BlockDivider:     newDividerBlock,
	BlockIcon:        newIconBlock,
	BlockSocial:      newSocialBlock,
	BlockTestimonial: newTestimonialBlock,
	BlockFeature:     newFeatureBlock,
	BlockPricing:     newPricingBlock,
	BlockForm:        newFormBlock,
	BlockAccordion:   newAccordionBlock,
	BlockQuote:       newQuoteBlock,
	BlockStats:       newStatsBlock,
	BlockTeam:        newTeamBlock,
	BlockGallery:     newGalleryBlock,
	BlockLogoGrid:    newLogoGridBlock,
	BlockEmbed:       newEmbedBlock,
	BlockNewsletter:  newNewsletterBlock,
}

// BlockTypes lists every variant in palette order.
func BlockTypes() []BlockType {
	return []BlockType{
		BlockText, BlockImage, BlockVideo, BlockButton, BlockCountdown, BlockFAQ,
		BlockSpace, BlockDivider, BlockIcon, BlockSocial, BlockTestimonial, BlockFeature,
		BlockPricing, BlockForm, BlockAccordion, BlockQuote, BlockStats, BlockTeam,
		BlockGallery, BlockLogoGrid, BlockEmbed, BlockNewsletter,
	}
}

// NewBlock stamps a fresh ID on a fully defaulted block of type t.
func NewBlock(ids IDGenerator, t BlockType) (Block, error) {
	ctor, ok := variants[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
	}
	b := ctor(true)
	b.SetBlockID(ids.NewID())
	return b, nil
}

// emptyBlock returns a block of type t with default style and no content.
func emptyBlock(t BlockType) (Block, error) {
	ctor, ok := variants[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
	}
	return ctor(false), nil
}

// KindOf reports the variant of b from its Go type, independent of the
// Type field. It panics on a variant this package does not know.
func KindOf(b Block) BlockType {
	switch b.(type) {
	case *TextBlock:
		return BlockText
	case *ImageBlock:
		return BlockImage
	case *VideoBlock:
		return BlockVideo
	case *ButtonBlock:
		return BlockButton
	case *CountdownBlock:
		return BlockCountdown
	case *FAQBlock:
		return BlockFAQ
	case *SpaceBlock:
		return BlockSpace
	case *DividerBlock:
		return BlockDivider
	case *IconBlock:
		return BlockIcon
	case *SocialBlock:
		return BlockSocial
	case *TestimonialBlock:
		return BlockTestimonial
	case *FeatureBlock:
		return BlockFeature
	case *PricingBlock:
		return BlockPricing
	case *FormBlock:
		return BlockForm
	case *AccordionBlock:
		return BlockAccordion
	case *QuoteBlock:
		return BlockQuote
	case *StatsBlock:
		return BlockStats
	case *TeamBlock:
		return BlockTeam
	case *GalleryBlock:
		return BlockGallery
	case *LogoGridBlock:
		return BlockLogoGrid
	case *EmbedBlock:
		return BlockEmbed
	case *NewsletterBlock:
		return BlockNewsletter
	default:
		panic(fmt.Sprintf("domain: unhandled block variant %T", b))
	}
}

const (
	colorText    = "#111827"
	colorMuted   = "#6b7280"
	colorPrimary = "#2563eb"
	colorWhite   = "#ffffff"
	colorLight   = "#f3f4f6"
	colorBorder  = "#e5e7eb"

	// DefaultFont is the font family stamped on new blocks.
	DefaultFont = "Inter, Helvetica, Arial, sans-serif"
)
