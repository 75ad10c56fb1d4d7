package sanitize_test

import (
	"strings"
	"testing"

	"pagebuilder/internal/sanitize"
)

// ─────────────────────────────────────────────────────────────
// Markup
// ─────────────────────────────────────────────────────────────

func TestHTML_KeepsInlineWhitelist(t *testing.T) {
	got := sanitize.HTML(`<p>Hello <strong>bold</strong> <em>it</em><br></p>`)
	for _, want := range []string{"<p>", "<strong>bold</strong>", "<em>it</em>", "<br"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML dropped %q: %s", want, got)
		}
	}
}

func TestHTML_StripsActiveContent(t *testing.T) {
	cases := []string{
		`<p onclick="steal()">hi</p><script>alert(1)</script>`,
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:alert(1)">x</a>`,
		`<span data-evil="1" style="background:url(x)">s</span>`,
		`<iframe src="https://evil"></iframe>`,
	}
	for _, in := range cases {
		got := strings.ToLower(sanitize.HTML(in))
		for _, bad := range []string{"<script", "onclick", "onerror", "javascript:", "data-evil", "style=", "<iframe", "<img"} {
			if strings.Contains(got, bad) {
				t.Errorf("HTML(%q) = %q, contains %q", in, got, bad)
			}
		}
	}
}

func TestHTML_LinkAttributes(t *testing.T) {
	got := sanitize.HTML(`<a href="https://example.com" target="_blank" rel="noopener" title="x">go</a>`)
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("href dropped: %s", got)
	}
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("target dropped: %s", got)
	}
	if strings.Contains(got, "title=") {
		t.Errorf("title should be stripped: %s", got)
	}

	got = sanitize.HTML(`<a href="/x" target="_parent">go</a>`)
	if strings.Contains(got, "_parent") {
		t.Errorf("unexpected target survived: %s", got)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<b>Hi</b> &amp; bye", "Hi & bye"},
		{"<script>alert(1)</script>safe", "safe"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := sanitize.Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscape(t *testing.T) {
	got := sanitize.Escape(`Tom & "Jerry" <b>x</b>`)
	if strings.ContainsAny(got, `<>"`) {
		t.Errorf("Escape left raw markup characters: %q", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Errorf("Escape did not encode ampersand: %q", got)
	}
}

// ─────────────────────────────────────────────────────────────
// CSS values
// ─────────────────────────────────────────────────────────────

func TestColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#fff", "#fff"},
		{"#A1B2C3", "#A1B2C3"},
		{"  #123456 ", "#123456"},
		{"Red", "red"},
		{"transparent", "transparent"},
		{"#12", "transparent"},
		{"#1234567", "transparent"},
		{"rgb(0,0,0)", "transparent"},
		{"red;background:url(x)", "transparent"},
		{"javascript:alert(1)", "transparent"},
		{"", "transparent"},
	}
	for _, tt := range tests {
		if got := sanitize.Color(tt.in); got != tt.want {
			t.Errorf("Color(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFontFamily(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Inter, sans-serif", "Inter, sans-serif"},
		{`"Open Sans", Arial`, "Open Sans, Arial"},
		{`'Roboto'`, "Roboto"},
		{"Arial;} body{display:none", sanitize.SystemFontStack},
		{"</style><script>", sanitize.SystemFontStack},
		{"url(x)", sanitize.SystemFontStack},
		{"", sanitize.SystemFontStack},
	}
	for _, tt := range tests {
		if got := sanitize.FontFamily(tt.in); got != tt.want {
			t.Errorf("FontFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeyword(t *testing.T) {
	allowed := []string{"row", "column"}
	if got := sanitize.Keyword(" Column ", allowed, "row"); got != "column" {
		t.Errorf("got %q, want column", got)
	}
	if got := sanitize.Keyword("row;color:red", allowed, "row"); got != "row" {
		t.Errorf("got %q, want fallback", got)
	}
}
