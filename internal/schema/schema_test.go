package schema_test

import (
	"errors"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/schema"
)

// ─────────────────────────────────────────────────────────────
// Detection
// ─────────────────────────────────────────────────────────────

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want schema.Detection
	}{
		{"native", `{"sections":[{"id":"s1","style":{"padding":{"top":48}},"blocks":[]}]}`,
			schema.Detection{Type: schema.TypePageBuilder, Confidence: 1}},
		{"native needs style", `{"sections":[{"id":"s1","blocks":[]}]}`,
			schema.Detection{Type: schema.TypeUnknown}},
		{"native needs a first section", `{"sections":[]}`,
			schema.Detection{Type: schema.TypeUnknown}},
		{"product two fields", `{"hero":{},"faq":[]}`,
			schema.Detection{Type: schema.TypeProduct, Confidence: 0.9}},
		{"product all fields", `{"hero":{},"variants":[],"products":[],"faq":[],"reviews":[],"theme":{}}`,
			schema.Detection{Type: schema.TypeProduct, Confidence: 0.9}},
		{"product one field", `{"hero":{"headline":"H"}}`,
			schema.Detection{Type: schema.TypeUnknown}},
		{"array", `[1,2,3]`, schema.Detection{Type: schema.TypeUnknown}},
		{"malformed", `{"sections":`, schema.Detection{Type: schema.TypeUnknown}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := schema.Detect([]byte(tc.in)); got != tc.want {
				t.Errorf("Detect = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────
// Native pass-through
// ─────────────────────────────────────────────────────────────

func TestAutoConvert_Native(t *testing.T) {
	ids := domain.NewSequenceGenerator("n")
	src := domain.NewPage(ids, "Launch")
	data, err := domain.MarshalPage(src)
	if err != nil {
		t.Fatal(err)
	}
	res, err := schema.AutoConvert(data, domain.NewSequenceGenerator("x"))
	if err != nil {
		t.Fatalf("AutoConvert: %v", err)
	}
	if res.SchemaType != schema.TypePageBuilder || res.Confidence != 1 {
		t.Errorf("result = %s/%v", res.SchemaType, res.Confidence)
	}
	if res.Page.ID != src.ID || res.Page.Sections[0].Blocks[0].BlockID() != src.Sections[0].Blocks[0].BlockID() {
		t.Error("native ids not preserved")
	}
	if res.Page.Slug != "launch" {
		t.Errorf("slug = %q", res.Page.Slug)
	}
}

func TestAutoConvert_NativeNameAndSlug(t *testing.T) {
	cases := []struct {
		name, slug         string
		wantName, wantSlug string
	}{
		{"Launch", "promo-2025", "Launch", "promo-2025"},
		{"Launch", "Landing Page!", "Launch", "landing-page"},
		{"", "", "Imported page", "imported-page"},
	}
	for _, tc := range cases {
		src := domain.NewPage(domain.NewSequenceGenerator("n"), tc.name)
		src.Slug = tc.slug
		data, err := domain.MarshalPage(src)
		if err != nil {
			t.Fatal(err)
		}
		res, err := schema.AutoConvert(data, domain.NewSequenceGenerator("x"))
		if err != nil {
			t.Fatalf("AutoConvert(%q, %q): %v", tc.name, tc.slug, err)
		}
		if res.Page.Name != tc.wantName || res.Page.Slug != tc.wantSlug {
			t.Errorf("AutoConvert(%q, %q) = %q/%q, want %q/%q",
				tc.name, tc.slug, res.Page.Name, res.Page.Slug, tc.wantName, tc.wantSlug)
		}
	}
}

func TestAutoConvert_NativeScenarioA(t *testing.T) {
	in := `{"sections":[{"id":"s1","style":{"padding":{"top":48,"right":24,"bottom":48,"left":24}},"blocks":[]}]}`
	res, err := schema.AutoConvert([]byte(in), domain.NewSequenceGenerator("a"))
	if err != nil {
		t.Fatalf("AutoConvert: %v", err)
	}
	if res.SchemaType != schema.TypePageBuilder || res.Confidence != 1.0 {
		t.Errorf("detected %s/%v", res.SchemaType, res.Confidence)
	}
	if res.Page.ID == "" || res.Page.Sections[0].ID != "s1" {
		t.Errorf("ids = %q / %q", res.Page.ID, res.Page.Sections[0].ID)
	}
}

func TestAutoConvert_NativeInvalid(t *testing.T) {
	cases := map[string]struct {
		in   string
		want error
	}{
		"unknown block type": {`{"sections":[{"id":"s","style":{},"blocks":[{"id":"b","type":"marquee"}]}]}`, schema.ErrMalformedJSON},
		"negative padding":   {`{"sections":[{"id":"s","style":{"padding":{"top":-5}},"blocks":[]}]}`, schema.ErrInvalidPage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := schema.AutoConvert([]byte(tc.in), domain.NewSequenceGenerator("i"))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if res.Page != nil {
				t.Error("partial page returned")
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────
// Product schema
// ─────────────────────────────────────────────────────────────

func TestAutoConvert_ScenarioB(t *testing.T) {
	in := `{"hero":{"headline":"H","subheadline":"S","cta_text":"Go","media_type":"image","media_url":"https://x/y.jpg"},"faq":[{"q":"Q1","a":"A1"}]}`
	res, err := schema.AutoConvert([]byte(in), domain.NewSequenceGenerator("b"))
	if err != nil {
		t.Fatalf("AutoConvert: %v", err)
	}
	if res.SchemaType != schema.TypeProduct {
		t.Fatalf("type = %s", res.SchemaType)
	}
	p := res.Page
	if len(p.Sections) < 2 {
		t.Fatalf("sections = %d, want >= 2", len(p.Sections))
	}

	var faqs []*domain.FAQBlock
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			if f, ok := b.(*domain.FAQBlock); ok {
				faqs = append(faqs, f)
			}
		}
	}
	if len(faqs) != 1 {
		t.Fatalf("faq blocks = %d", len(faqs))
	}
	want := []domain.FAQItem{{Question: "Q1", Answer: "A1"}}
	if len(faqs[0].Items) != 1 || faqs[0].Items[0] != want[0] {
		t.Errorf("faq items = %+v", faqs[0].Items)
	}

	hero := p.Sections[0]
	kinds := make([]domain.BlockType, 0, len(hero.Blocks))
	for _, b := range hero.Blocks {
		kinds = append(kinds, b.BlockType())
	}
	wantKinds := []domain.BlockType{domain.BlockImage, domain.BlockText, domain.BlockText, domain.BlockButton}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("hero blocks = %v", kinds)
	}
	for i := range kinds {
		if kinds[i] != wantKinds[i] {
			t.Errorf("hero block %d = %s, want %s", i, kinds[i], wantKinds[i])
		}
	}
	if btn := hero.Blocks[3].(*domain.ButtonBlock); btn.Text != "Go" || btn.Style.BackgroundColor != "#2563eb" {
		t.Errorf("cta = %q on %s", btn.Text, btn.Style.BackgroundColor)
	}
	if p.Name != "H" || p.Slug != "h" {
		t.Errorf("name/slug = %q/%q", p.Name, p.Slug)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("converted page invalid: %v", err)
	}
}

func TestAutoConvert_ProductSections(t *testing.T) {
	in := `{
		"hero": {"headline": "Blender", "media_type": "video", "media_url": "https://youtu.be/abc123"},
		"variants": [{"id": "v1", "label": "Small", "price": 49}, {"id": "v2", "label": "Large", "price": "59.90", "highlighted": true}],
		"reviews": [{"author": "Ana", "text": "Great", "rating": 9}, {"author": "Bo", "text": ""}],
		"upsell_page": {"headline": "Add a warranty", "cta_text": "Add it", "price": 9.5},
		"theme": {"primary": "#ff0000", "bg": "javascript:alert(1)", "font_heading": "Georgia, serif"}
	}`
	res, err := schema.AutoConvert([]byte(in), domain.NewSequenceGenerator("p"))
	if err != nil {
		t.Fatalf("AutoConvert: %v", err)
	}
	p := res.Page
	if len(p.Sections) != 4 {
		t.Fatalf("sections = %d, want hero, choices, reviews, upsell", len(p.Sections))
	}

	hero := p.Sections[0]
	if v, ok := hero.Blocks[0].(*domain.VideoBlock); !ok || v.URL != "https://youtu.be/abc123" {
		t.Errorf("hero media = %#v", hero.Blocks[0])
	}
	if hero.Style.BackgroundColor != "#ffffff" {
		t.Errorf("unusable theme bg not replaced: %q", hero.Style.BackgroundColor)
	}
	if h := hero.Blocks[1].(*domain.TextBlock); h.Style.FontFamily != "Georgia, serif" {
		t.Errorf("heading font = %q", h.Style.FontFamily)
	}

	var pricing *domain.PricingBlock
	for _, b := range p.Sections[1].Blocks {
		if pb, ok := b.(*domain.PricingBlock); ok {
			pricing = pb
		}
	}
	if pricing == nil || len(pricing.Tiers) != 2 {
		t.Fatalf("pricing = %#v", pricing)
	}
	if pricing.Tiers[0].Price != "49" || pricing.Tiers[1].Price != "59.90" || !pricing.Tiers[1].Highlighted {
		t.Errorf("tiers = %+v", pricing.Tiers)
	}
	if pricing.Style.AccentColor != "#ff0000" {
		t.Errorf("accent = %q", pricing.Style.AccentColor)
	}

	var reviews []*domain.TestimonialBlock
	for _, b := range p.Sections[2].Blocks {
		if tb, ok := b.(*domain.TestimonialBlock); ok {
			reviews = append(reviews, tb)
		}
	}
	if len(reviews) != 1 || reviews[0].Rating != 5 {
		t.Errorf("reviews = %+v", reviews)
	}

	upsell := p.Sections[3]
	if upsell.Style.BackgroundColor != "#ff0000" {
		t.Errorf("upsell bg = %q", upsell.Style.BackgroundColor)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("converted page invalid: %v", err)
	}
}

func TestAutoConvert_EscapesText(t *testing.T) {
	in := `{"hero":{"headline":"<script>alert(1)</script>"},"theme":{}}`
	res, err := schema.AutoConvert([]byte(in), domain.NewSequenceGenerator("e"))
	if err != nil {
		t.Fatal(err)
	}
	tb := res.Page.Sections[0].Blocks[0].(*domain.TextBlock)
	if tb.Content != "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>" {
		t.Errorf("content = %q", tb.Content)
	}
}

func TestAutoConvert_Failures(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantErr  error
		wantType schema.Type
	}{
		{"unknown", `{"title":"x"}`, schema.ErrUnknownSchema, schema.TypeUnknown},
		{"malformed", `{"hero":`, schema.ErrMalformedJSON, schema.TypeUnknown},
		{"wrong shape", `{"hero":"text","faq":3}`, schema.ErrMalformedJSON, schema.TypeProduct},
		{"no content", `{"hero":{},"theme":{"primary":"#000000"}}`, schema.ErrEmptyConversion, schema.TypeProduct},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := schema.AutoConvert([]byte(tc.in), domain.NewSequenceGenerator("f"))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if res == nil || res.SchemaType != tc.wantType || res.Page != nil {
				t.Errorf("result = %+v", res)
			}
		})
	}
}
