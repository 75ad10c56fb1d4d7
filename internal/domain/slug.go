package domain

import "github.com/gosimple/slug"

// Slugify turns a page name into a URL path segment. It never returns "".
func Slugify(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "page"
}

// EnsureSlug derives p.Slug from the page name when it is empty. A slug
// that is already valid is kept; any other is slugified, since it names
// the published file.
func (p *Page) EnsureSlug() string {
	switch {
	case p.Slug == "":
		p.Slug = Slugify(p.Name)
	case !slug.IsSlug(p.Slug):
		p.Slug = Slugify(p.Slug)
	}
	return p.Slug
}
