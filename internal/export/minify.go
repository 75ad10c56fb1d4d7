package export

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"go.uber.org/zap"
)

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}

// minify falls back to the unminified document on error.
func (r *Renderer) minify(doc string) string {
	out, err := getMinifier().String("text/html", doc)
	if err != nil {
		r.log.Warn("minify failed, keeping unminified output", zap.Error(err))
		return doc
	}
	return out
}
