package domain

import "slices"

// ─────────────────────────────────────────────────────────────
// FAQ, accordion
// ─────────────────────────────────────────────────────────────

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQStyle struct {
	Box
	QuestionColor string `json:"questionColor"`
	AnswerColor   string `json:"answerColor"`
	DividerColor  string `json:"dividerColor"`
	FontFamily    string `json:"fontFamily"`
	QuestionSize  int    `json:"questionSize" validate:"min=0"`
}

type FAQBlock struct {
	Base
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
	Style FAQStyle  `json:"style"`
}

func newFAQBlock(seed bool) Block {
	b := &FAQBlock{
		Base: Base{Type: BlockFAQ},
		Style: FAQStyle{
			Box:           Box{Padding: Uniform(16)},
			QuestionColor: colorText,
			AnswerColor:   colorMuted,
			DividerColor:  colorBorder,
			FontFamily:    DefaultFont,
			QuestionSize:  18,
		},
	}
	if seed {
		b.Title = "Frequently asked questions"
		b.Items = []FAQItem{{Question: "What is included?", Answer: "Everything you need to get started."}}
	}
	return b
}

func (b *FAQBlock) Clone() Block {
	c := *b
	c.Items = slices.Clone(b.Items)
	return &c
}

type AccordionItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AccordionStyle struct {
	Box
	HeaderColor      string `json:"headerColor"`
	HeaderBackground string `json:"headerBackground"`
	ContentColor     string `json:"contentColor"`
	BorderColor      string `json:"borderColor"`
	FontFamily       string `json:"fontFamily"`
}

type AccordionBlock struct {
	Base
	Items []AccordionItem `json:"items"`
	Style AccordionStyle  `json:"style"`
}

func newAccordionBlock(seed bool) Block {
	b := &AccordionBlock{
		Base: Base{Type: BlockAccordion},
		Style: AccordionStyle{
			Box:              Box{Padding: Uniform(8)},
			HeaderColor:      colorText,
			HeaderBackground: colorLight,
			ContentColor:     colorMuted,
			BorderColor:      colorBorder,
			FontFamily:       DefaultFont,
		},
	}
	if seed {
		b.Items = []AccordionItem{{Title: "Section title", Content: "Section content."}}
	}
	return b
}

func (b *AccordionBlock) Clone() Block {
	c := *b
	c.Items = slices.Clone(b.Items)
	return &c
}

// ─────────────────────────────────────────────────────────────
// Social
// ─────────────────────────────────────────────────────────────

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type SocialStyle struct {
	Box
	IconSize int    `json:"iconSize" validate:"min=0"`
	Color    string `json:"color"`
	Gap      int    `json:"gap" validate:"min=0"`
	Align    string `json:"align"`
}

type SocialBlock struct {
	Base
	Links []SocialLink `json:"links"`
	Style SocialStyle  `json:"style"`
}

func newSocialBlock(seed bool) Block {
	b := &SocialBlock{
		Base: Base{Type: BlockSocial},
		Style: SocialStyle{
			Box:      Box{Padding: Uniform(8)},
			IconSize: 24,
			Color:    colorText,
			Gap:      12,
			Align:    "center",
		},
	}
	if seed {
		b.Links = []SocialLink{{Platform: "facebook"}, {Platform: "instagram"}, {Platform: "x"}}
	}
	return b
}

func (b *SocialBlock) Clone() Block {
	c := *b
	c.Links = slices.Clone(b.Links)
	return &c
}

// ─────────────────────────────────────────────────────────────
// Testimonial, feature
// ─────────────────────────────────────────────────────────────

type TestimonialStyle struct {
	Box
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentColor     string `json:"accentColor"`
	FontFamily      string `json:"fontFamily"`
	BorderRadius    int    `json:"borderRadius" validate:"min=0"`
}

type TestimonialBlock struct {
	Base
	Quote     string           `json:"quote"`
	Author    string           `json:"author"`
	Role      string           `json:"role"`
	AvatarURL string           `json:"avatarUrl"`
	Rating    int              `json:"rating" validate:"min=0,max=5"`
	Style     TestimonialStyle `json:"style"`
}

func newTestimonialBlock(seed bool) Block {
	b := &TestimonialBlock{
		Base: Base{Type: BlockTestimonial},
		Style: TestimonialStyle{
			Box:             Box{Padding: Uniform(24)},
			BackgroundColor: colorLight,
			TextColor:       colorText,
			AccentColor:     colorPrimary,
			FontFamily:      DefaultFont,
			BorderRadius:    12,
		},
	}
	if seed {
		b.Quote = "This product changed how we work."
		b.Author = "Happy Customer"
		b.Rating = 5
	}
	return b
}

func (b *TestimonialBlock) Clone() Block { c := *b; return &c }

type FeatureStyle struct {
	Box
	IconColor  string `json:"iconColor"`
	TitleColor string `json:"titleColor"`
	TextColor  string `json:"textColor"`
	FontFamily string `json:"fontFamily"`
	Align      string `json:"align"`
}

type FeatureBlock struct {
	Base
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Style       FeatureStyle `json:"style"`
}

func newFeatureBlock(seed bool) Block {
	b := &FeatureBlock{
		Base: Base{Type: BlockFeature},
		Style: FeatureStyle{
			Box:        Box{Padding: Uniform(16)},
			IconColor:  colorPrimary,
			TitleColor: colorText,
			TextColor:  colorMuted,
			FontFamily: DefaultFont,
			Align:      "center",
		},
	}
	if seed {
		b.Icon = "⚡"
		b.Title = "Fast"
		b.Description = "Describe the benefit in one sentence."
	}
	return b
}

func (b *FeatureBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Pricing
// ─────────────────────────────────────────────────────────────

type PricingTier struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	CTAText     string   `json:"ctaText"`
	CTALink     string   `json:"ctaLink"`
	Highlighted bool     `json:"highlighted"`
}

type PricingStyle struct {
	Box
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	BorderColor     string `json:"borderColor"`
	FontFamily      string `json:"fontFamily"`
	BorderRadius    int    `json:"borderRadius" validate:"min=0"`
}

type PricingBlock struct {
	Base
	Tiers []PricingTier `json:"tiers"`
	Style PricingStyle  `json:"style"`
}

func newPricingBlock(seed bool) Block {
	b := &PricingBlock{
		Base: Base{Type: BlockPricing},
		Style: PricingStyle{
			Box:             Box{Padding: Uniform(16)},
			AccentColor:     colorPrimary,
			BackgroundColor: colorWhite,
			TextColor:       colorText,
			BorderColor:     colorBorder,
			FontFamily:      DefaultFont,
			BorderRadius:    12,
		},
	}
	if seed {
		b.Tiers = []PricingTier{{
			Name:     "Starter",
			Price:    "$9",
			Period:   "month",
			Features: []string{"One project", "Email support"},
			CTAText:  "Choose plan",
			CTALink:  "#",
		}}
	}
	return b
}

func (b *PricingBlock) Clone() Block {
	c := *b
	if b.Tiers != nil {
		c.Tiers = make([]PricingTier, len(b.Tiers))
		for i, t := range b.Tiers {
			t.Features = slices.Clone(t.Features)
			c.Tiers[i] = t
		}
	}
	return &c
}

// ─────────────────────────────────────────────────────────────
// Form, newsletter
// ─────────────────────────────────────────────────────────────

type FormField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

type FormStyle struct {
	Box
	LabelColor       string `json:"labelColor"`
	InputBorderColor string `json:"inputBorderColor"`
	ButtonColor      string `json:"buttonColor"`
	ButtonTextColor  string `json:"buttonTextColor"`
	FontFamily       string `json:"fontFamily"`
	BorderRadius     int    `json:"borderRadius" validate:"min=0"`
}

type FormBlock struct {
	Base
	Fields     []FormField `json:"fields"`
	SubmitText string      `json:"submitText"`
	Action     string      `json:"action"`
	Style      FormStyle   `json:"style"`
}

func newFormBlock(seed bool) Block {
	b := &FormBlock{
		Base: Base{Type: BlockForm},
		Style: FormStyle{
			Box:              Box{Padding: Uniform(16)},
			LabelColor:       colorText,
			InputBorderColor: colorBorder,
			ButtonColor:      colorPrimary,
			ButtonTextColor:  colorWhite,
			FontFamily:       DefaultFont,
			BorderRadius:     6,
		},
	}
	if seed {
		b.Fields = []FormField{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
		}
		b.SubmitText = "Submit"
	}
	return b
}

func (b *FormBlock) Clone() Block {
	c := *b
	c.Fields = slices.Clone(b.Fields)
	return &c
}

type NewsletterStyle struct {
	Box
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	ButtonColor     string `json:"buttonColor"`
	ButtonTextColor string `json:"buttonTextColor"`
	FontFamily      string `json:"fontFamily"`
	BorderRadius    int    `json:"borderRadius" validate:"min=0"`
}

type NewsletterBlock struct {
	Base
	Heading     string          `json:"heading"`
	Description string          `json:"description"`
	Placeholder string          `json:"placeholder"`
	ButtonText  string          `json:"buttonText"`
	Action      string          `json:"action"`
	Style       NewsletterStyle `json:"style"`
}

func newNewsletterBlock(seed bool) Block {
	b := &NewsletterBlock{
		Base: Base{Type: BlockNewsletter},
		Style: NewsletterStyle{
			Box:             Box{Padding: Uniform(24)},
			BackgroundColor: colorLight,
			TextColor:       colorText,
			ButtonColor:     colorPrimary,
			ButtonTextColor: colorWhite,
			FontFamily:      DefaultFont,
			BorderRadius:    8,
		},
	}
	if seed {
		b.Heading = "Stay in the loop"
		b.Description = "Get updates in your inbox."
		b.Placeholder = "you@example.com"
		b.ButtonText = "Subscribe"
	}
	return b
}

func (b *NewsletterBlock) Clone() Block { c := *b; return &c }

// ─────────────────────────────────────────────────────────────
// Stats, team, logo grid
// ─────────────────────────────────────────────────────────────

type StatItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type StatsStyle struct {
	Box
	ValueColor string `json:"valueColor"`
	LabelColor string `json:"labelColor"`
	FontFamily string `json:"fontFamily"`
	Columns    int    `json:"columns" validate:"min=0"`
}

type StatsBlock struct {
	Base
	Items []StatItem `json:"items"`
	Style StatsStyle `json:"style"`
}

func newStatsBlock(seed bool) Block {
	b := &StatsBlock{
		Base: Base{Type: BlockStats},
		Style: StatsStyle{
			Box:        Box{Padding: Uniform(16)},
			ValueColor: colorPrimary,
			LabelColor: colorMuted,
			FontFamily: DefaultFont,
			Columns:    3,
		},
	}
	if seed {
		b.Items = []StatItem{{Value: "10k+", Label: "Customers"}, {Value: "99%", Label: "Uptime"}, {Value: "24/7", Label: "Support"}}
	}
	return b
}

func (b *StatsBlock) Clone() Block {
	c := *b
	c.Items = slices.Clone(b.Items)
	return &c
}

type TeamMember struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl"`
	Bio      string `json:"bio"`
}

type TeamStyle struct {
	Box
	NameColor  string `json:"nameColor"`
	RoleColor  string `json:"roleColor"`
	FontFamily string `json:"fontFamily"`
	Columns    int    `json:"columns" validate:"min=0"`
	PhotoShape string `json:"photoShape"`
}

type TeamBlock struct {
	Base
	Members []TeamMember `json:"members"`
	Style   TeamStyle    `json:"style"`
}

func newTeamBlock(seed bool) Block {
	b := &TeamBlock{
		Base: Base{Type: BlockTeam},
		Style: TeamStyle{
			Box:        Box{Padding: Uniform(16)},
			NameColor:  colorText,
			RoleColor:  colorMuted,
			FontFamily: DefaultFont,
			Columns:    3,
			PhotoShape: "circle",
		},
	}
	if seed {
		b.Members = []TeamMember{{Name: "Team member", Role: "Role"}}
	}
	return b
}

func (b *TeamBlock) Clone() Block {
	c := *b
	c.Members = slices.Clone(b.Members)
	return &c
}

type Logo struct {
	Src  string `json:"src"`
	Alt  string `json:"alt"`
	Link string `json:"link"`
}

type LogoGridStyle struct {
	Box
	Columns    int  `json:"columns" validate:"min=0"`
	Gap        int  `json:"gap" validate:"min=0"`
	LogoHeight int  `json:"logoHeight" validate:"min=0"`
	Grayscale  bool `json:"grayscale"`
}

type LogoGridBlock struct {
	Base
	Logos []Logo        `json:"logos"`
	Style LogoGridStyle `json:"style"`
}

func newLogoGridBlock(seed bool) Block {
	b := &LogoGridBlock{
		Base: Base{Type: BlockLogoGrid},
		Style: LogoGridStyle{
			Box:        Box{Padding: Uniform(16)},
			Columns:    4,
			Gap:        24,
			LogoHeight: 40,
			Grayscale:  true,
		},
	}
	if seed {
		b.Logos = []Logo{}
	}
	return b
}

func (b *LogoGridBlock) Clone() Block {
	c := *b
	c.Logos = slices.Clone(b.Logos)
	return &c
}
