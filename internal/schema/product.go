package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

// ── Product schema ─────────────────────────────────────────

type product struct {
	Name       string     `json:"name"`
	Title      string     `json:"title"`
	Hero       *hero      `json:"hero"`
	Variants   []offer    `json:"variants"`
	Products   []offer    `json:"products"`
	Reviews    []review   `json:"reviews"`
	FAQ        []faqEntry `json:"faq"`
	UpsellPage *upsell    `json:"upsell_page"`
	Theme      theme      `json:"theme"`
}

type hero struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"cta_text"`
	CTAURL      string `json:"cta_url"`
	MediaType   string `json:"media_type"`
	MediaURL    string `json:"media_url"`
}

type offer struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Price       price    `json:"price"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	URL         string   `json:"url"`
	Highlighted bool     `json:"highlighted"`
}

func (o offer) label() string {
	for _, s := range []string{o.Label, o.Name, o.Title, o.ID} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

type review struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
	Rating int    `json:"rating"`
}

type faqEntry struct {
	Q        string `json:"q"`
	A        string `json:"a"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type upsell struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	Description string `json:"description"`
	CTAText     string `json:"cta_text"`
	CTAURL      string `json:"cta_url"`
	Price       price  `json:"price"`
}

// price accepts a JSON number or string.
type price string

func (p *price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = price(strings.TrimSpace(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if f == float64(int64(f)) {
		*p = price(strconv.FormatInt(int64(f), 10))
	} else {
		*p = price(strconv.FormatFloat(f, 'f', 2, 64))
	}
	return nil
}

// ── Conversion ─────────────────────────────────────────────

type converter struct {
	ids domain.IDGenerator
	pal palette
	cta string
}

func convertProduct(data []byte, ids domain.IDGenerator) (*domain.Page, error) {
	var src product
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	c := &converter{ids: ids, pal: src.Theme.resolve(), cta: "Choose"}

	p := &domain.Page{Name: firstNonEmpty(src.Name, src.Title)}
	if h := src.Hero; h != nil {
		if p.Name == "" {
			p.Name = sanitize.Text(h.Headline)
		}
		if t := strings.TrimSpace(h.CTAText); t != "" {
			c.cta = t
		}
		if s, ok := c.hero(h); ok {
			p.Sections = append(p.Sections, s)
		}
	}
	if s, ok := c.choices(append(append([]offer(nil), src.Variants...), src.Products...)); ok {
		p.Sections = append(p.Sections, s)
	}
	if s, ok := c.reviews(src.Reviews); ok {
		p.Sections = append(p.Sections, s)
	}
	if s, ok := c.faq(src.FAQ); ok {
		p.Sections = append(p.Sections, s)
	}
	if u := src.UpsellPage; u != nil {
		if s, ok := c.upsell(u); ok {
			p.Sections = append(p.Sections, s)
		}
	}
	if len(p.Sections) == 0 {
		return nil, ErrEmptyConversion
	}
	return finish(p, ids)
}

func (c *converter) hero(h *hero) (domain.Section, bool) {
	var blocks []domain.Block
	if url := strings.TrimSpace(h.MediaURL); url != "" {
		if strings.EqualFold(strings.TrimSpace(h.MediaType), "video") {
			v := newBlock[*domain.VideoBlock](c.ids, domain.BlockVideo)
			v.URL = url
			v.Provider = ""
			blocks = append(blocks, v)
		} else {
			img := newBlock[*domain.ImageBlock](c.ids, domain.BlockImage)
			img.Src = url
			img.Alt = sanitize.Text(h.Headline)
			img.Style.BorderRadius = 12
			blocks = append(blocks, img)
		}
	}
	if h.Headline != "" {
		blocks = append(blocks, c.text(h.Headline, 44, "700", c.pal.text, c.pal.heading))
	}
	if h.Subheadline != "" {
		blocks = append(blocks, c.text(h.Subheadline, 20, "400", c.pal.text, c.pal.body))
	}
	if t := strings.TrimSpace(h.CTAText); t != "" {
		blocks = append(blocks, c.button(t, h.CTAURL, c.pal.primary, "#ffffff"))
	}
	if len(blocks) == 0 {
		return domain.Section{}, false
	}
	s := c.section(c.pal.bg, blocks...)
	s.Style.Padding = domain.Axis(80, 24)
	s.Style.AlignItems = "center"
	return s, true
}

func (c *converter) choices(offers []offer) (domain.Section, bool) {
	var tiers []domain.PricingTier
	for _, o := range offers {
		name := o.label()
		if name == "" {
			continue
		}
		features := o.Features
		if len(features) == 0 && o.Description != "" {
			features = []string{o.Description}
		}
		link := o.URL
		if link == "" {
			link = "#"
		}
		tiers = append(tiers, domain.PricingTier{
			Name:        name,
			Price:       string(o.Price),
			Period:      o.Period,
			Features:    features,
			CTAText:     c.cta,
			CTALink:     link,
			Highlighted: o.Highlighted,
		})
	}
	if len(tiers) == 0 {
		return domain.Section{}, false
	}
	pricing := newBlock[*domain.PricingBlock](c.ids, domain.BlockPricing)
	pricing.Tiers = tiers
	pricing.Style.AccentColor = c.pal.primary
	pricing.Style.TextColor = c.pal.text
	pricing.Style.FontFamily = c.pal.body

	return c.section(c.pal.lightBg, c.title("Choose your option"), pricing), true
}

func (c *converter) reviews(reviews []review) (domain.Section, bool) {
	var cards []domain.Block
	for _, r := range reviews {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		t := newBlock[*domain.TestimonialBlock](c.ids, domain.BlockTestimonial)
		t.Quote = r.Text
		t.Author = r.Author
		t.Role = r.Role
		t.AvatarURL = r.Avatar
		t.Rating = min(max(r.Rating, 0), 5)
		t.Style.BackgroundColor = c.pal.lightBg
		t.Style.TextColor = c.pal.text
		t.Style.AccentColor = c.pal.primary
		t.Style.FontFamily = c.pal.body
		cards = append(cards, t)
	}
	if len(cards) == 0 {
		return domain.Section{}, false
	}
	return c.section(c.pal.bg, append([]domain.Block{c.title("What our customers say")}, cards...)...), true
}

func (c *converter) faq(entries []faqEntry) (domain.Section, bool) {
	var items []domain.FAQItem
	for _, e := range entries {
		q := firstNonEmpty(e.Q, e.Question)
		if q == "" {
			continue
		}
		items = append(items, domain.FAQItem{Question: q, Answer: firstNonEmpty(e.A, e.Answer)})
	}
	if len(items) == 0 {
		return domain.Section{}, false
	}
	b := newBlock[*domain.FAQBlock](c.ids, domain.BlockFAQ)
	b.Title = "Frequently asked questions"
	b.Items = items
	b.Style.QuestionColor = c.pal.text
	b.Style.FontFamily = c.pal.body
	return c.section(c.pal.lightBg, b), true
}

func (c *converter) upsell(u *upsell) (domain.Section, bool) {
	var blocks []domain.Block
	if u.Headline != "" {
		blocks = append(blocks, c.text(u.Headline, 32, "700", "#ffffff", c.pal.heading))
	}
	if d := firstNonEmpty(u.Subheadline, u.Description); d != "" {
		blocks = append(blocks, c.text(d, 18, "400", "#ffffff", c.pal.body))
	}
	if u.Price != "" {
		blocks = append(blocks, c.text(string(u.Price), 28, "700", "#ffffff", c.pal.heading))
	}
	if t := strings.TrimSpace(u.CTAText); t != "" {
		blocks = append(blocks, c.button(t, u.CTAURL, "#ffffff", c.pal.primary))
	}
	if len(blocks) == 0 {
		return domain.Section{}, false
	}
	s := c.section(c.pal.primary, blocks...)
	s.Style.AlignItems = "center"
	return s, true
}

// ── Block helpers ──────────────────────────────────────────

func newBlock[T domain.Block](ids domain.IDGenerator, t domain.BlockType) T {
	b, err := domain.NewBlock(ids, t)
	if err != nil {
		panic(err)
	}
	return b.(T)
}

func (c *converter) section(bg string, blocks ...domain.Block) domain.Section {
	s := domain.NewSection(c.ids)
	s.Style.BackgroundColor = bg
	s.Blocks = blocks
	return s
}

// text escapes plain foreign text into a paragraph.
func (c *converter) text(s string, size int, weight, color, font string) *domain.TextBlock {
	t := newBlock[*domain.TextBlock](c.ids, domain.BlockText)
	t.Content = "<p>" + html.EscapeString(strings.TrimSpace(s)) + "</p>"
	t.Style.FontSize = size
	t.Style.FontWeight = weight
	t.Style.Color = color
	t.Style.FontFamily = font
	t.Style.TextAlign = "center"
	return t
}

func (c *converter) title(s string) *domain.TextBlock {
	return c.text(s, 32, "700", c.pal.text, c.pal.heading)
}

func (c *converter) button(text, link, bg, fg string) *domain.ButtonBlock {
	b := newBlock[*domain.ButtonBlock](c.ids, domain.BlockButton)
	b.Text = text
	b.Link = strings.TrimSpace(link)
	if b.Link == "" {
		b.Link = "#"
	}
	b.Style.BackgroundColor = bg
	b.Style.TextColor = fg
	b.Style.FontFamily = c.pal.body
	b.Style.FontSize = 18
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
