package sanitize

import (
	"regexp"
	"strings"
)

// SystemFontStack replaces any font family that fails validation.
const SystemFontStack = "-apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Helvetica, Arial, sans-serif"

// FallbackColor replaces any color that fails validation.
const FallbackColor = "transparent"

var (
	hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontRe     = regexp.MustCompile(`^[a-zA-Z0-9\s,-]+$`)

	fontStripper = strings.NewReplacer(`"`, "", `'`, "", "`", "", "<", "", ">", "", `\`, "")

	namedColors = map[string]struct{}{
		"black": {}, "white": {}, "red": {}, "green": {}, "blue": {}, "yellow": {},
		"orange": {}, "purple": {}, "pink": {}, "gray": {}, "grey": {}, "brown": {},
		"navy": {}, "teal": {}, "silver": {}, "maroon": {}, "olive": {}, "lime": {},
		"aqua": {}, "fuchsia": {}, "cyan": {}, "magenta": {}, "gold": {}, "indigo": {},
		"transparent": {},
	}
)

// Color accepts 3 or 6 digit hex colors and a short list of named colors.
// Everything else becomes "transparent".
func Color(s string) string {
	s = strings.TrimSpace(s)
	if hexColorRe.MatchString(s) {
		return s
	}
	if _, ok := namedColors[strings.ToLower(s)]; ok {
		return strings.ToLower(s)
	}
	return FallbackColor
}

// FontFamily removes quotes, angle brackets and backslashes, then requires
// the rest to be a plain comma separated family list.
func FontFamily(s string) string {
	cleaned := strings.TrimSpace(fontStripper.Replace(s))
	if cleaned == "" || !fontRe.MatchString(cleaned) {
		return SystemFontStack
	}
	return cleaned
}

// Keyword returns v lowercased when it is one of allowed, fallback otherwise.
func Keyword(v string, allowed []string, fallback string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}
