package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/layout"
	"pagebuilder/internal/sanitize"
)

var (
	dimensionRe   = regexp.MustCompile(`^(auto|\d{1,5}(\.\d{1,3})?(px|%|rem|em|vw|vh)?)$`)
	aspectRatioRe = regexp.MustCompile(`^(\d{1,3})\s*[:/]\s*(\d{1,3})$`)

	textAligns  = []string{"left", "center", "right", "justify"}
	fontWeights = []string{"normal", "bold", "lighter", "bolder", "100", "200", "300", "400", "500", "600", "700", "800", "900"}
	objectFits  = []string{"cover", "contain", "fill", "none", "scale-down"}
	lineStyles  = []string{"solid", "dashed", "dotted", "double"}
	bgSizes     = []string{"cover", "contain", "auto"}
	bgRepeats   = []string{"no-repeat", "repeat", "repeat-x", "repeat-y"}
	bgPositions = []string{
		"center", "top", "bottom", "left", "right",
		"top left", "top center", "top right",
		"center left", "center center", "center right",
		"bottom left", "bottom center", "bottom right",
	}

	cssURLEscaper = strings.NewReplacer(
		`'`, "%27", `"`, "%22", "(", "%28", ")", "%29", `\`, "%5C",
		" ", "%20", "\n", "", "\r", "", "\t", "",
	)
)

// css accumulates declarations for one style attribute. Every value added
// has already been sanitized or whitelisted.
type css []layout.Declaration

func (c *css) add(prop, value string) {
	if value != "" {
		*c = append(*c, layout.Declaration{Property: prop, Value: value})
	}
}

func (c *css) addAll(decls []layout.Declaration) { *c = append(*c, decls...) }

func (c *css) px(prop string, n int) {
	c.add(prop, fmt.Sprintf("%dpx", max(n, 0)))
}

// pxIf adds the declaration only for positive values.
func (c *css) pxIf(prop string, n int) {
	if n > 0 {
		c.px(prop, n)
	}
}

func (c *css) color(prop, v string) { c.add(prop, sanitize.Color(v)) }

// colorIf skips empty colors instead of forcing transparent.
func (c *css) colorIf(prop, v string) {
	if strings.TrimSpace(v) != "" {
		c.color(prop, v)
	}
}

func (c *css) font(v string) { c.add("font-family", sanitize.FontFamily(v)) }

func (c *css) box(b domain.Box) { c.addAll(layout.Box(b.Padding, b.Margin)) }

func (c *css) spacing(prop string, s domain.Spacing) {
	c.add(prop, fmt.Sprintf("%dpx %dpx %dpx %dpx", max(s.Top, 0), max(s.Right, 0), max(s.Bottom, 0), max(s.Left, 0)))
}

func (c css) attr() attribute {
	if len(c) == 0 {
		return attribute{}
	}
	return attr("style", layout.Join(c))
}

func align(v string) string { return sanitize.Keyword(v, textAligns, "left") }

// justify maps a text alignment onto flex main-axis alignment.
func justify(v string) string {
	switch align(v) {
	case "center":
		return "center"
	case "right":
		return "flex-end"
	}
	return "flex-start"
}

// dimension accepts plain CSS lengths and percentages.
func dimension(v, fallback string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if dimensionRe.MatchString(v) {
		return v
	}
	return fallback
}

// aspectRatio turns "16:9" into "16/9", falling back to 16/9.
func aspectRatio(v string) string {
	m := aspectRatioRe.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil || m[1] == "0" || m[2] == "0" {
		return "16/9"
	}
	return m[1] + "/" + m[2]
}

func number(f float64) string {
	if f <= 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cssURL wraps an already validated URL for use inside url(...).
func cssURL(u string) string {
	return "url('" + cssURLEscaper.Replace(u) + "')"
}

// gridColumns clamps a column count for card grids.
func gridColumns(n, fallback int) string {
	if n < 1 {
		n = fallback
	}
	return fmt.Sprintf("repeat(%d,minmax(0,1fr))", min(n, 6))
}
