package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	blockedSchemes = []string{"javascript:", "data:", "vbscript:", "file:"}
	passSchemes    = []string{"http://", "https://", "mailto:", "tel:"}

	schemeRe    = regexp.MustCompile(`^[a-z][a-z0-9+.\-]*:`)
	dataImageRe = regexp.MustCompile(`^(?i:data:image/(png|jpe?g|gif|webp);base64,)[A-Za-z0-9+/]+={0,2}$`)
)

// URL validates a link or media location.
//
// javascript:, data:, vbscript: and file: are rejected whatever their case
// and whatever whitespace or control characters are hidden inside them.
// Relative paths, fragments, http(s), mailto and tel pass unchanged. Any
// other explicit scheme is rejected, and a bare hostname is coerced to
// https. The boolean is false when the caller must treat the URL as absent.
func URL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	lowered := strings.ToLower(stripInvisible(s))
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lowered, scheme) {
			return "", false
		}
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#") {
		return s, true
	}
	for _, scheme := range passSchemes {
		if strings.HasPrefix(lowered, scheme) {
			return s, true
		}
	}
	if m := schemeRe.FindString(lowered); m != "" {
		// host:port is a bare hostname, anything else is a foreign scheme
		rest := lowered[len(m):]
		if rest == "" || rest[0] < '0' || rest[0] > '9' {
			return "", false
		}
	}
	return "https://" + s, true
}

// ImageURL is URL plus base64 raster data URLs, which is how the upload
// collaborator hands over inline images. SVG data is not accepted.
func ImageURL(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if dataImageRe.MatchString(trimmed) {
		return trimmed, true
	}
	return URL(trimmed)
}

func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
