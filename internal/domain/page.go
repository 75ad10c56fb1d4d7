package domain

// LayoutKind selects how a Section arranges its blocks.
type LayoutKind string

const (
	LayoutFlex LayoutKind = "flex"
	LayoutGrid LayoutKind = "grid"
)

// Spacing is a four-sided measure in pixels.
type Spacing struct {
	Top    int `json:"top" validate:"min=0"`
	Right  int `json:"right" validate:"min=0"`
	Bottom int `json:"bottom" validate:"min=0"`
	Left   int `json:"left" validate:"min=0"`
}

// Uniform returns the same spacing on all four sides.
func Uniform(px int) Spacing {
	return Spacing{Top: px, Right: px, Bottom: px, Left: px}
}

// Axis returns vertical spacing on top/bottom and horizontal on left/right.
func Axis(vertical, horizontal int) Spacing {
	return Spacing{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Box is the padding and margin carried by every style object.
type Box struct {
	Padding Spacing `json:"padding"`
	Margin  Spacing `json:"margin"`
}

type SectionStyle struct {
	Box
	BackgroundColor    string `json:"backgroundColor"`
	BackgroundImage    string `json:"backgroundImage"`
	BackgroundSize     string `json:"backgroundSize"`
	BackgroundPosition string `json:"backgroundPosition"`
	BackgroundRepeat   string `json:"backgroundRepeat"`
	FlexDirection      string `json:"flexDirection"`
	AlignItems         string `json:"alignItems"`
	JustifyContent     string `json:"justifyContent"`
	FlexWrap           string `json:"flexWrap"`
	ColumnGap          int    `json:"columnGap" validate:"min=0"`
	RowGap             int    `json:"rowGap" validate:"min=0"`
	MaxWidth           int    `json:"maxWidth" validate:"min=0"`
}

// DefaultSectionStyle is the style stamped on every new or decoded section.
func DefaultSectionStyle() SectionStyle {
	return SectionStyle{
		Box:                Box{Padding: Axis(48, 24)},
		BackgroundColor:    colorWhite,
		BackgroundSize:     "cover",
		BackgroundPosition: "center",
		BackgroundRepeat:   "no-repeat",
		FlexDirection:      "column",
		AlignItems:         "stretch",
		JustifyContent:     "flex-start",
		FlexWrap:           "nowrap",
		ColumnGap:          16,
		RowGap:             16,
		MaxWidth:           1200,
	}
}

type Section struct {
	ID      string       `json:"id" validate:"required"`
	Layout  LayoutKind   `json:"layout" validate:"oneof=flex grid"`
	Columns *int         `json:"columns,omitempty"`
	Style   SectionStyle `json:"style"`
	Blocks  []Block      `json:"blocks"`
}

// Page is the root of the document tree. Slice order is the only ordering
// authority for sections and blocks.
type Page struct {
	ID       string    `json:"id" validate:"required"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug,omitempty"`
	Sections []Section `json:"sections" validate:"dive"`
}

// NewPage returns a page with one flex section holding one text block.
func NewPage(ids IDGenerator, name string) *Page {
	s := NewSection(ids)
	text, _ := NewBlock(ids, BlockText)
	s.Blocks = []Block{text}
	return &Page{
		ID:       ids.NewID(),
		Name:     name,
		Sections: []Section{s},
	}
}

// NewSection returns an empty flex section with default style.
func NewSection(ids IDGenerator) Section {
	return Section{
		ID:     ids.NewID(),
		Layout: LayoutFlex,
		Style:  DefaultSectionStyle(),
		Blocks: []Block{},
	}
}

// IntPtr is a helper for Section.Columns.
func IntPtr(n int) *int { return &n }

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	c := *p
	if p.Sections != nil {
		c.Sections = make([]Section, len(p.Sections))
		for i := range p.Sections {
			c.Sections[i] = p.Sections[i].Clone()
		}
	}
	return &c
}

// Clone returns a deep copy of the section, blocks included.
func (s Section) Clone() Section {
	c := s
	if s.Columns != nil {
		n := *s.Columns
		c.Columns = &n
	}
	if s.Blocks != nil {
		c.Blocks = make([]Block, len(s.Blocks))
		for i, b := range s.Blocks {
			if b != nil {
				c.Blocks[i] = b.Clone()
			}
		}
	}
	return c
}

// SectionIndex returns the position of the section with id, or -1.
func (p *Page) SectionIndex(id string) int {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// BlockIndex returns the position of the block with id, or -1.
func (s *Section) BlockIndex(id string) int {
	for i, b := range s.Blocks {
		if b != nil && b.BlockID() == id {
			return i
		}
	}
	return -1
}

// LocateBlock finds the section and position holding the block with id.
func (p *Page) LocateBlock(id string) (sectionIndex, blockIndex int, ok bool) {
	for i := range p.Sections {
		if j := p.Sections[i].BlockIndex(id); j >= 0 {
			return i, j, true
		}
	}
	return -1, -1, false
}

// BlockCount is the total number of blocks across all sections.
func (p *Page) BlockCount() int {
	n := 0
	for i := range p.Sections {
		n += len(p.Sections[i].Blocks)
	}
	return n
}

// IDs returns every section and block ID in use.
func (p *Page) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.Sections)+p.BlockCount())
	for i := range p.Sections {
		ids[p.Sections[i].ID] = struct{}{}
		for _, b := range p.Sections[i].Blocks {
			if b != nil {
				ids[b.BlockID()] = struct{}{}
			}
		}
	}
	return ids
}
