package domain

import "slices"

// ─────────────────────────────────────────────────────────────
// Text
// ─────────────────────────────────────────────────────────────

type TextStyle struct {
	Box
	Color           string  `json:"color"`
	BackgroundColor string  `json:"backgroundColor"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        int     `json:"fontSize" validate:"min=0"`
	FontWeight      string  `json:"fontWeight"`
	LineHeight      float64 `json:"lineHeight" validate:"min=0"`
	TextAlign       string  `json:"textAlign"`
}

// TextBlock holds rich text limited to inline markup.
type TextBlock struct {
	Base
	Content string    `json:"content"`
	Style   TextStyle `json:"style"`
}

func newTextBlock(seed bool) Block {
	b := &TextBlock{
		Base: Base{Type: BlockText},
		Style: TextStyle{
			Box:             Box{Padding: Uniform(8)},
			Color:           colorText,
			BackgroundColor: "transparent",
			FontFamily:      DefaultFont,
			FontSize:        16,
			FontWeight:      "400",
			LineHeight:      1.6,
			TextAlign:       "left",
		},
	}
	if seed {
		b.Content = "<p>Write something here.</p>"
	}
	return b
}

func (b *TextBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Image
// ─────────────────────────────────────────────────────────────

type ImageStyle struct {
	Box
	Width        string `json:"width"`
	Height       string `json:"height"`
	ObjectFit    string `json:"objectFit"`
	BorderRadius int    `json:"borderRadius" validate:"min=0"`
	Align        string `json:"align"`
}

type ImageBlock struct {
	Base
	Src   string     `json:"src"`
	Alt   string     `json:"alt"`
	Link  string     `json:"link"`
	Style ImageStyle `json:"style"`
}

func newImageBlock(seed bool) Block {
	b := &ImageBlock{
		Base: Base{Type: BlockImage},
		Style: ImageStyle{
			Box:       Box{Padding: Uniform(8)},
			Width:     "100%",
			Height:    "auto",
			ObjectFit: "cover",
			Align:     "center",
		},
	}
	if seed {
		b.Alt = "Image"
	}
	return b
}

func (b *ImageBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Video
// ─────────────────────────────────────────────────────────────

type VideoStyle struct {
	Box
	Width        string `json:"width"`
	AspectRatio  string `json:"aspectRatio"`
	BorderRadius int    `json:"borderRadius" validate:"min=0"`
}

// VideoBlock plays a hosted (youtube, vimeo, ...) or direct video file.
// An empty Provider means detect from the URL.
type VideoBlock struct {
	Base
	URL      string     `json:"url"`
	Provider string     `json:"provider"`
	Poster   string     `json:"poster"`
	Autoplay bool       `json:"autoplay"`
	Muted    bool       `json:"muted"`
	Loop     bool       `json:"loop"`
	Controls bool       `json:"controls"`
	Style    VideoStyle `json:"style"`
}

func newVideoBlock(seed bool) Block {
	b := &VideoBlock{
		Base:     Base{Type: BlockVideo},
		Controls: true,
		Style: VideoStyle{
			Box:         Box{Padding: Uniform(8)},
			Width:       "100%",
			AspectRatio: "16:9",
		},
	}
	if seed {
		b.Provider = "youtube"
	}
	return b
}

func (b *VideoBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Button
// ─────────────────────────────────────────────────────────────

type ButtonStyle struct {
	Box
	InnerPadding    Spacing `json:"innerPadding"`
	BackgroundColor string  `json:"backgroundColor"`
	TextColor       string  `json:"textColor"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        int     `json:"fontSize" validate:"min=0"`
	FontWeight      string  `json:"fontWeight"`
	BorderRadius    int     `json:"borderRadius" validate:"min=0"`
	Align           string  `json:"align"`
	FullWidth       bool    `json:"fullWidth"`
}

type ButtonBlock struct {
	Base
	Text   string      `json:"text"`
	Link   string      `json:"link"`
	NewTab bool        `json:"newTab"`
	Style  ButtonStyle `json:"style"`
}

func newButtonBlock(seed bool) Block {
	b := &ButtonBlock{
		Base:  Base{Type: BlockButton},
		Style: defaultButtonStyle(),
	}
	if seed {
		b.Text = "Click here"
		b.Link = "#"
	}
	return b
}

func defaultButtonStyle() ButtonStyle {
	return ButtonStyle{
		Box:             Box{Padding: Uniform(8)},
		InnerPadding:    Axis(12, 24),
		BackgroundColor: colorPrimary,
		TextColor:       colorWhite,
		FontFamily:      DefaultFont,
		FontSize:        16,
		FontWeight:      "600",
		BorderRadius:    6,
		Align:           "center",
	}
}

func (b *ButtonBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Countdown
// ─────────────────────────────────────────────────────────────

type CountdownStyle struct {
	Box
	DigitColor      string `json:"digitColor"`
	LabelColor      string `json:"labelColor"`
	BackgroundColor string `json:"backgroundColor"`
	FontFamily      string `json:"fontFamily"`
	FontSize        int    `json:"fontSize" validate:"min=0"`
	BorderRadius    int    `json:"borderRadius" validate:"min=0"`
	Align           string `json:"align"`
}

// CountdownBlock counts down to TargetDate, an RFC 3339 timestamp.
type CountdownBlock struct {
	Base
	TargetDate  string         `json:"targetDate"`
	Label       string         `json:"label"`
	ExpiredText string         `json:"expiredText"`
	Style       CountdownStyle `json:"style"`
}

func newCountdownBlock(seed bool) Block {
	b := &CountdownBlock{
		Base: Base{Type: BlockCountdown},
		Style: CountdownStyle{
			Box:             Box{Padding: Uniform(16)},
			DigitColor:      colorText,
			LabelColor:      colorMuted,
			BackgroundColor: colorLight,
			FontFamily:      DefaultFont,
			FontSize:        32,
			BorderRadius:    8,
			Align:           "center",
		},
	}
	if seed {
		b.Label = "Offer ends in"
		b.ExpiredText = "This offer has ended"
	}
	return b
}

func (b *CountdownBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Space, divider, icon
// ─────────────────────────────────────────────────────────────

type SpaceStyle struct {
	Box
}

type SpaceBlock struct {
	Base
	Height int        `json:"height" validate:"min=0"`
	Style  SpaceStyle `json:"style"`
}

func newSpaceBlock(seed bool) Block {
	b := &SpaceBlock{Base: Base{Type: BlockSpace}}
	if seed {
		b.Height = 40
	}
	return b
}

func (b *SpaceBlock) Clone() Block { c := *b; return &c }

type DividerStyle struct {
	Box
	Color     string `json:"color"`
	Thickness int    `json:"thickness" validate:"min=0"`
	LineStyle string `json:"lineStyle"`
	Width     string `json:"width"`
}

type DividerBlock struct {
	Base
	Style DividerStyle `json:"style"`
}

func newDividerBlock(bool) Block {
	return &DividerBlock{
		Base: Base{Type: BlockDivider},
		Style: DividerStyle{
			Box:       Box{Padding: Axis(16, 0)},
			Color:     colorBorder,
			Thickness: 1,
			LineStyle: "solid",
			Width:     "100%",
		},
	}
}

func (b *DividerBlock) Clone() Block { c := *b; return &c }

type IconStyle struct {
	Box
	Size  int    `json:"size" validate:"min=0"`
	Color string `json:"color"`
	Align string `json:"align"`
}

// IconBlock shows a single glyph or emoji, optionally linked.
type IconBlock struct {
	Base
	Icon  string    `json:"icon"`
	Label string    `json:"label"`
	Link  string    `json:"link"`
	Style IconStyle `json:"style"`
}

func newIconBlock(seed bool) Block {
	b := &IconBlock{
		Base: Base{Type: BlockIcon},
		Style: IconStyle{
			Box:   Box{Padding: Uniform(8)},
			Size:  32,
			Color: colorPrimary,
			Align: "center",
		},
	}
	if seed {
		b.Icon = "★"
	}
	return b
}

func (b *IconBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Quote
// ─────────────────────────────────────────────────────────────

type QuoteStyle struct {
	Box
	TextColor   string `json:"textColor"`
	AccentColor string `json:"accentColor"`
	FontFamily  string `json:"fontFamily"`
	FontSize    int    `json:"fontSize" validate:"min=0"`
	Align       string `json:"align"`
}

type QuoteBlock struct {
	Base
	Text   string     `json:"text"`
	Author string     `json:"author"`
	Source string     `json:"source"`
	Style  QuoteStyle `json:"style"`
}

func newQuoteBlock(seed bool) Block {
	b := &QuoteBlock{
		Base: Base{Type: BlockQuote},
		Style: QuoteStyle{
			Box:         Box{Padding: Axis(16, 24)},
			TextColor:   colorText,
			AccentColor: colorPrimary,
			FontFamily:  DefaultFont,
			FontSize:    20,
			Align:       "left",
		},
	}
	if seed {
		b.Text = "Simplicity is the ultimate sophistication."
		b.Author = "Leonardo da Vinci"
	}
	return b
}

func (b *QuoteBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Gallery, embed
// ─────────────────────────────────────────────────────────────

type GalleryImage struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type GalleryStyle struct {
	Box
	Columns      int `json:"columns" validate:"min=0"`
	Gap          int `json:"gap" validate:"min=0"`
	BorderRadius int `json:"borderRadius" validate:"min=0"`
}

type GalleryBlock struct {
	Base
	Images []GalleryImage `json:"images"`
	Style  GalleryStyle   `json:"style"`
}

func newGalleryBlock(seed bool) Block {
	b := &GalleryBlock{
		Base: Base{Type: BlockGallery},
		Style: GalleryStyle{
			Box:          Box{Padding: Uniform(8)},
			Columns:      3,
			Gap:          8,
			BorderRadius: 4,
		},
	}
	if seed {
		b.Images = []GalleryImage{}
	}
	return b
}

func (b *GalleryBlock) Clone() Block {
	c := *b
	c.Images = slices.Clone(b.Images)
	return &c
}

type EmbedStyle struct {
	Box
	Width        string `json:"width"`
	AspectRatio  string `json:"aspectRatio"`
	BorderRadius int    `json:"borderRadius" validate:"min=0"`
}

// EmbedBlock frames third-party media. The URL is only ever rendered after
// canonicalization for its provider.
type EmbedBlock struct {
	Base
	URL      string     `json:"url"`
	Provider string     `json:"provider"`
	Title    string     `json:"title"`
	Style    EmbedStyle `json:"style"`
}

func newEmbedBlock(seed bool) Block {
	b := &EmbedBlock{
		Base: Base{Type: BlockEmbed},
		Style: EmbedStyle{
			Box:         Box{Padding: Uniform(8)},
			Width:       "100%",
			AspectRatio: "16:9",
		},
	}
	if seed {
		b.Title = "Embedded content"
	}
	return b
}

func (b *EmbedBlock) Clone() Block { c := *b; return &c }
