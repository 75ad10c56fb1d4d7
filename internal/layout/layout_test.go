package layout_test

import (
	"reflect"
	"strings"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/layout"
)

func TestResolve_GridColumns(t *testing.T) {
	style := domain.DefaultSectionStyle()
	tests := []struct {
		name    string
		columns *int
		want    int
	}{
		{"unset", nil, 2},
		{"zero", domain.IntPtr(0), 2},
		{"negative", domain.IntPtr(-3), 2},
		{"explicit", domain.IntPtr(4), 4},
		{"capped", domain.IntPtr(40), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := layout.Resolve(style, domain.LayoutGrid, tt.columns)
			if in.Mode != layout.ModeGrid {
				t.Fatalf("expected grid, got %q", in.Mode)
			}
			if in.Columns != tt.want {
				t.Errorf("columns = %d, want %d", in.Columns, tt.want)
			}
			if in.Direction != "" || in.Wrap != "" {
				t.Errorf("grid should not carry flex fields: %+v", in)
			}
		})
	}
}

func TestResolve_FlexIsEverythingButGrid(t *testing.T) {
	style := domain.DefaultSectionStyle()
	style.FlexDirection = "Row"
	style.JustifyContent = "space-between"
	style.ColumnGap = 10
	style.RowGap = 20

	for _, kind := range []domain.LayoutKind{domain.LayoutFlex, "", "masonry"} {
		in := layout.Resolve(style, kind, domain.IntPtr(3))
		if in.Mode != layout.ModeFlex {
			t.Fatalf("kind %q: expected flex, got %q", kind, in.Mode)
		}
		if in.Columns != 0 {
			t.Errorf("kind %q: flex should ignore columns, got %d", kind, in.Columns)
		}
		if in.Direction != "row" || in.JustifyContent != "space-between" {
			t.Errorf("kind %q: unexpected %+v", kind, in)
		}
		if in.ColumnGap != 10 || in.RowGap != 20 {
			t.Errorf("kind %q: gaps not reused: %+v", kind, in)
		}
	}
}

func TestResolve_KeywordFallbacks(t *testing.T) {
	style := domain.SectionStyle{
		FlexDirection:  "row;background:url(x)",
		AlignItems:     "expression(alert(1))",
		JustifyContent: "",
		FlexWrap:       "WRAP",
		ColumnGap:      -4,
	}
	in := layout.Resolve(style, domain.LayoutFlex, nil)
	want := layout.Instructions{
		Mode:           layout.ModeFlex,
		Direction:      "column",
		AlignItems:     "stretch",
		JustifyContent: "flex-start",
		Wrap:           "wrap",
		ColumnGap:      0,
	}
	if !reflect.DeepEqual(in, want) {
		t.Errorf("got %+v, want %+v", in, want)
	}
}

func TestDeclarations(t *testing.T) {
	grid := layout.Resolve(domain.SectionStyle{ColumnGap: 8, RowGap: 4}, domain.LayoutGrid, domain.IntPtr(3))
	css := layout.Join(grid.Declarations())
	want := "display:grid;grid-template-columns:repeat(3,minmax(0,1fr));gap:4px 8px;"
	if css != want {
		t.Errorf("grid css = %q, want %q", css, want)
	}

	flex := layout.Resolve(domain.DefaultSectionStyle(), domain.LayoutFlex, nil)
	css = layout.Join(flex.Declarations())
	if !strings.HasPrefix(css, "display:flex;flex-direction:column;") {
		t.Errorf("flex css = %q", css)
	}
	if flex.ItemDeclarations() != nil {
		t.Error("column flex items need no declarations")
	}
}

func TestBox(t *testing.T) {
	got := layout.Join(layout.Box(domain.Spacing{Top: 1, Right: 2, Bottom: 3, Left: 4}, domain.Spacing{Top: -1}))
	want := "padding:1px 2px 3px 4px;margin:0px 0px 0px 0px;"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
