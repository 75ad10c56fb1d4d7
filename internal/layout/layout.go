// Package layout maps a section's style descriptor to concrete flex or grid
// layout instructions. Everything here is a pure function of its input.
package layout

import (
	"fmt"
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/sanitize"
)

const (
	DefaultColumns = 2
	MaxColumns     = 12
)

type Mode string

const (
	ModeFlex Mode = "flex"
	ModeGrid Mode = "grid"
)

// Keyword whitelists and the value used when a style holds anything else.
var (
	Directions      = []string{"row", "row-reverse", "column", "column-reverse"}
	AlignItems      = []string{"stretch", "flex-start", "flex-end", "center", "baseline", "start", "end"}
	JustifyContents = []string{"flex-start", "flex-end", "center", "space-between", "space-around", "space-evenly", "start", "end"}
	Wraps           = []string{"nowrap", "wrap", "wrap-reverse"}
)

const (
	fallbackDirection = "column"
	fallbackAlign     = "stretch"
	fallbackJustify   = "flex-start"
	fallbackWrap      = "nowrap"
)

// Instructions describe how a section lays out its blocks. Grid fields are
// zero in flex mode and flex fields are empty in grid mode.
type Instructions struct {
	Mode           Mode
	Columns        int
	Direction      string
	AlignItems     string
	JustifyContent string
	Wrap           string
	ColumnGap      int
	RowGap         int
}

// Resolve picks grid iff kind is grid, flex otherwise. Columns default to 2
// when unset or below 1 and are capped at 12. Flex keywords are checked
// against the whitelists above.
func Resolve(style domain.SectionStyle, kind domain.LayoutKind, columns *int) Instructions {
	in := Instructions{
		ColumnGap: nonNegative(style.ColumnGap),
		RowGap:    nonNegative(style.RowGap),
	}
	if kind == domain.LayoutGrid {
		in.Mode = ModeGrid
		in.Columns = DefaultColumns
		if columns != nil && *columns >= 1 {
			in.Columns = min(*columns, MaxColumns)
		}
		return in
	}

	in.Mode = ModeFlex
	in.Direction = sanitize.Keyword(style.FlexDirection, Directions, fallbackDirection)
	in.AlignItems = sanitize.Keyword(style.AlignItems, AlignItems, fallbackAlign)
	in.JustifyContent = sanitize.Keyword(style.JustifyContent, JustifyContents, fallbackJustify)
	in.Wrap = sanitize.Keyword(style.FlexWrap, Wraps, fallbackWrap)
	return in
}

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

func (d Declaration) String() string { return d.Property + ":" + d.Value }

// Declarations renders the container side of the layout.
func (in Instructions) Declarations() []Declaration {
	gap := Declaration{"gap", fmt.Sprintf("%dpx %dpx", in.RowGap, in.ColumnGap)}
	if in.Mode == ModeGrid {
		return []Declaration{
			{"display", "grid"},
			{"grid-template-columns", fmt.Sprintf("repeat(%d,minmax(0,1fr))", in.Columns)},
			gap,
		}
	}
	return []Declaration{
		{"display", "flex"},
		{"flex-direction", in.Direction},
		{"align-items", in.AlignItems},
		{"justify-content", in.JustifyContent},
		{"flex-wrap", in.Wrap},
		gap,
	}
}

// ItemDeclarations renders what each child of the container needs: grid
// cells and row-flex items may shrink below their content width.
func (in Instructions) ItemDeclarations() []Declaration {
	if in.Mode == ModeGrid {
		return []Declaration{{"min-width", "0"}}
	}
	if strings.HasPrefix(in.Direction, "row") {
		return []Declaration{{"flex", "1 1 0"}, {"min-width", "0"}}
	}
	return nil
}

// Box renders padding and margin, negative sides clamped to zero.
func Box(padding, margin domain.Spacing) []Declaration {
	return []Declaration{
		{"padding", spacing(padding)},
		{"margin", spacing(margin)},
	}
}

// Join renders declarations as an inline style attribute value.
func Join(decls ...[]Declaration) string {
	var b strings.Builder
	for _, group := range decls {
		for _, d := range group {
			if d.Value == "" {
				continue
			}
			b.WriteString(d.String())
			b.WriteByte(';')
		}
	}
	return b.String()
}

func spacing(s domain.Spacing) string {
	return fmt.Sprintf("%dpx %dpx %dpx %dpx",
		nonNegative(s.Top), nonNegative(s.Right), nonNegative(s.Bottom), nonNegative(s.Left))
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
