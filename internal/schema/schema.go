// Package schema recognizes imported JSON documents and converts them into
// pages. Two shapes are understood: the native page document and the
// product landing-page schema produced by storefront generators.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"pagebuilder/internal/domain"
)

type Type string

const (
	TypePageBuilder Type = "page-builder"
	TypeProduct     Type = "product-ecommerce"
	TypeUnknown     Type = "unknown"
)

// productConfidence is fixed; it does not grow with the number of
// matching fields.
const productConfidence = 0.9

var (
	ErrUnknownSchema   = errors.New("unknown schema")
	ErrMalformedJSON   = errors.New("malformed json")
	ErrInvalidPage     = errors.New("invalid page document")
	ErrEmptyConversion = errors.New("schema carries no convertible content")
)

// productFields are the top-level keys of the product schema. Two of them
// are enough to recognize it.
var productFields = []string{"hero", "variants", "products", "faq", "reviews", "theme"}

type Detection struct {
	Type       Type    `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Result describes an import. Page is nil unless the import succeeded.
type Result struct {
	SchemaType Type         `json:"schemaType"`
	Confidence float64      `json:"confidence"`
	Page       *domain.Page `json:"page,omitempty"`
}

// Detect classifies raw JSON. Input that does not parse is unknown.
func Detect(data []byte) Detection {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Detection{Type: TypeUnknown}
	}
	return DetectValue(v)
}

// DetectValue classifies an already decoded JSON value.
func DetectValue(v any) Detection {
	obj, ok := v.(map[string]any)
	if !ok {
		return Detection{Type: TypeUnknown}
	}
	if isNative(obj) {
		return Detection{Type: TypePageBuilder, Confidence: 1}
	}
	matched := 0
	for _, f := range productFields {
		if _, ok := obj[f]; ok {
			matched++
		}
	}
	if matched >= 2 {
		return Detection{Type: TypeProduct, Confidence: productConfidence}
	}
	return Detection{Type: TypeUnknown}
}

// isNative reports whether obj has a sections array whose first element
// carries both blocks and style.
func isNative(obj map[string]any) bool {
	sections, ok := obj["sections"].([]any)
	if !ok || len(sections) == 0 {
		return false
	}
	first, ok := sections[0].(map[string]any)
	if !ok {
		return false
	}
	_, hasBlocks := first["blocks"]
	_, hasStyle := first["style"]
	return hasBlocks && hasStyle
}

// AutoConvert detects the schema of data and converts it into a normalized,
// valid page. It never returns a partial page: on any error the Result
// carries the detected type and a nil Page.
func AutoConvert(data []byte, ids domain.IDGenerator) (*Result, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &Result{SchemaType: TypeUnknown}, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	det := DetectValue(v)
	res := &Result{SchemaType: det.Type, Confidence: det.Confidence}

	var (
		page *domain.Page
		err  error
	)
	switch det.Type {
	case TypePageBuilder:
		page, err = convertNative(data, ids)
	case TypeProduct:
		page, err = convertProduct(data, ids)
	default:
		return res, ErrUnknownSchema
	}
	if err != nil {
		return res, err
	}
	res.Page = page
	return res, nil
}

func convertNative(data []byte, ids domain.IDGenerator) (*domain.Page, error) {
	p, err := domain.ParsePage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return finish(p, ids)
}

// finish stamps IDs, fills the name and slug, and validates.
func finish(p *domain.Page, ids domain.IDGenerator) (*domain.Page, error) {
	domain.Normalize(p, ids)
	if p.Name == "" {
		p.Name = "Imported page"
	}
	p.EnsureSlug()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}
	return p, nil
}
