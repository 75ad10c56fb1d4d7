package schema

import (
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

// Fallbacks for theme entries that are missing or not usable.
const (
	fallbackPrimary = "#2563eb"
	fallbackBg      = "#ffffff"
	fallbackText    = "#111827"
	fallbackLightBg = "#f3f4f6"
)

type theme struct {
	Primary     string `json:"primary"`
	Bg          string `json:"bg"`
	Text        string `json:"text"`
	LightBg     string `json:"light_bg"`
	FontHeading string `json:"font_heading"`
	FontBody    string `json:"font_body"`
}

// palette is a theme with every entry sanitized and defaulted.
type palette struct {
	primary, bg, text, lightBg string
	heading, body              string
}

func (t theme) resolve() palette {
	body := themeFont(t.FontBody, domain.DefaultFont)
	return palette{
		primary: themeColor(t.Primary, fallbackPrimary),
		bg:      themeColor(t.Bg, fallbackBg),
		text:    themeColor(t.Text, fallbackText),
		lightBg: themeColor(t.LightBg, fallbackLightBg),
		heading: themeFont(t.FontHeading, body),
		body:    body,
	}
}

// themeColor differs from sanitize.Color in falling back to a visible
// default instead of transparent.
func themeColor(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	c := sanitize.Color(v)
	if c == sanitize.FallbackColor && !strings.EqualFold(v, "transparent") {
		return fallback
	}
	return c
}

func themeFont(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	f := sanitize.FontFamily(v)
	if f == sanitize.SystemFontStack {
		return fallback
	}
	return f
}
