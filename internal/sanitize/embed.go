package sanitize

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strings"
)

// Provider names a third-party media source an embed URL may come from.
type Provider string

const (
	ProviderAuto      Provider = ""
	ProviderYouTube   Provider = "youtube"
	ProviderVimeo     Provider = "vimeo"
	ProviderInstagram Provider = "instagram"
	ProviderTikTok    Provider = "tiktok"
	ProviderDirect    Provider = "direct"
)

// IframeSandbox is the fixed sandbox token set carried by every exported iframe.
const IframeSandbox = "allow-scripts allow-same-origin allow-presentation allow-popups"

var (
	providerHosts = map[Provider][]string{
		ProviderYouTube: {
			"youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com",
			"youtu.be", "www.youtu.be", "youtube-nocookie.com", "www.youtube-nocookie.com",
		},
		ProviderVimeo:     {"vimeo.com", "www.vimeo.com", "player.vimeo.com"},
		ProviderInstagram: {"instagram.com", "www.instagram.com"},
		ProviderTikTok:    {"tiktok.com", "www.tiktok.com", "m.tiktok.com"},
	}

	frameOrigins = []string{
		"https://www.youtube-nocookie.com",
		"https://player.vimeo.com",
		"https://www.instagram.com",
		"https://www.tiktok.com",
	}

	videoExtensions = []string{".mp4", ".webm", ".ogg", ".ogv", ".mov", ".m4v"}

	slugIDRe    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	numericIDRe = regexp.MustCompile(`^[0-9]{1,32}$`)
)

// FrameSources lists the origins canonical embed URLs point at, for use in
// a Content-Security-Policy frame-src directive.
func FrameSources() []string {
	out := make([]string, len(frameOrigins))
	copy(out, frameOrigins)
	return out
}

// DetectProvider guesses the provider of raw from its host or file extension.
// It returns ProviderAuto when nothing matches.
func DetectProvider(raw string) Provider {
	u, ok := parseMediaURL(raw)
	if !ok {
		if _, direct := directVideoURL(raw); direct {
			return ProviderDirect
		}
		return ProviderAuto
	}
	host := strings.ToLower(u.Hostname())
	for p, hosts := range providerHosts {
		if slices.Contains(hosts, host) {
			return p
		}
	}
	if isVideoFile(u.Path) {
		return ProviderDirect
	}
	return ProviderAuto
}

// EmbedURL validates raw against the provider's domain or extension whitelist,
// extracts the media identifier and rebuilds a minimal embed URL from it.
// The untrusted input is never returned verbatim. ProviderAuto detects the
// provider first. The boolean is false when nothing safe can be derived.
func EmbedURL(raw string, provider Provider) (string, bool) {
	if provider == ProviderAuto {
		provider = DetectProvider(raw)
	}
	if provider == ProviderDirect {
		return directVideoURL(raw)
	}
	u, ok := parseMediaURL(raw)
	if !ok {
		return "", false
	}
	hosts, known := providerHosts[provider]
	if !known || !slices.Contains(hosts, strings.ToLower(u.Hostname())) {
		return "", false
	}
	segments := pathSegments(u.Path)

	switch provider {
	case ProviderYouTube:
		return youtubeEmbed(u, segments)
	case ProviderVimeo:
		return vimeoEmbed(segments)
	case ProviderInstagram:
		return instagramEmbed(segments)
	case ProviderTikTok:
		return tiktokEmbed(segments)
	}
	return "", false
}

func youtubeEmbed(u *url.URL, segments []string) (string, bool) {
	var id string
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(host, "youtu.be"):
		if len(segments) > 0 {
			id = segments[0]
		}
	case len(segments) > 0 && segments[0] == "watch":
		id = u.Query().Get("v")
	case len(segments) > 1 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live" || segments[0] == "v"):
		id = segments[1]
	}
	if !slugIDRe.MatchString(id) {
		return "", false
	}
	return "https://www.youtube-nocookie.com/embed/" + id, true
}

func vimeoEmbed(segments []string) (string, bool) {
	for i := len(segments) - 1; i >= 0; i-- {
		if numericIDRe.MatchString(segments[i]) {
			return fmt.Sprintf("https://player.vimeo.com/video/%s?dnt=1", segments[i]), true
		}
	}
	return "", false
}

func instagramEmbed(segments []string) (string, bool) {
	if len(segments) < 2 {
		return "", false
	}
	kind := segments[0]
	if kind != "p" && kind != "reel" && kind != "tv" {
		return "", false
	}
	if !slugIDRe.MatchString(segments[1]) {
		return "", false
	}
	return fmt.Sprintf("https://www.instagram.com/%s/%s/embed", kind, segments[1]), true
}

func tiktokEmbed(segments []string) (string, bool) {
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "video" || segments[i] == "v2" {
			if numericIDRe.MatchString(segments[i+1]) {
				return "https://www.tiktok.com/embed/v2/" + segments[i+1], true
			}
		}
	}
	return "", false
}

// directVideoURL accepts absolute http(s) or root-relative links to a video
// file and keeps only scheme, host and path.
func directVideoURL(raw string) (string, bool) {
	clean, ok := URL(raw)
	if !ok {
		return "", false
	}
	u, err := url.Parse(clean)
	if err != nil || !isVideoFile(u.Path) {
		return "", false
	}
	if u.Scheme == "" && u.Host == "" && strings.HasPrefix(u.Path, "/") {
		return (&url.URL{Path: u.Path}).String(), true
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String(), true
}

func parseMediaURL(raw string) (*url.URL, bool) {
	clean, ok := URL(raw)
	if !ok {
		return nil, false
	}
	u, err := url.Parse(clean)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isVideoFile(p string) bool {
	return slices.Contains(videoExtensions, strings.ToLower(path.Ext(p)))
}
