package editor_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

// newGrid builds a page with n sections of m text blocks each. Section i is
// "s<i>" and its blocks are "s<i>b<j>".
func newGrid(t *testing.T, n, m int) *editor.Document {
	t.Helper()
	p := &domain.Page{ID: "page", Name: "Grid"}
	for i := 0; i < n; i++ {
		s := domain.Section{ID: fmt.Sprintf("s%d", i), Layout: domain.LayoutFlex, Style: domain.DefaultSectionStyle(), Blocks: []domain.Block{}}
		for j := 0; j < m; j++ {
			b, _ := domain.NewBlock(domain.UUIDGenerator{}, domain.BlockText)
			b.SetBlockID(fmt.Sprintf("s%db%d", i, j))
			s.Blocks = append(s.Blocks, b)
		}
		p.Sections = append(p.Sections, s)
	}
	return editor.New(p, domain.NewSequenceGenerator("new-"))
}

func blockIDs(p *domain.Page, sectionIndex int) []string {
	var ids []string
	for _, b := range p.Sections[sectionIndex].Blocks {
		ids = append(ids, b.BlockID())
	}
	return ids
}

func textBlock(id string) domain.Block {
	b, _ := domain.NewBlock(domain.UUIDGenerator{}, domain.BlockText)
	b.SetBlockID(id)
	return b
}

// ─────────────────────────────────────────────────────────────
// AddBlock
// ─────────────────────────────────────────────────────────────

func TestAddBlock_Positions(t *testing.T) {
	tests := []struct {
		name string
		at   []int
		want []string
	}{
		{"append", nil, []string{"s0b0", "s0b1", "x"}},
		{"front", []int{0}, []string{"x", "s0b0", "s0b1"}},
		{"middle", []int{1}, []string{"s0b0", "x", "s0b1"}},
		{"end", []int{2}, []string{"s0b0", "s0b1", "x"}},
		{"past end appends", []int{9}, []string{"s0b0", "s0b1", "x"}},
		{"negative appends", []int{-1}, []string{"s0b0", "s0b1", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newGrid(t, 1, 2)
			id, err := doc.AddBlock("s0", textBlock("x"), tt.at...)
			if err != nil {
				t.Fatalf("AddBlock: %v", err)
			}
			if id != "x" {
				t.Errorf("id = %q", id)
			}
			if got := blockIDs(doc.Snapshot(), 0); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddBlock_StampsEmptyID(t *testing.T) {
	doc := newGrid(t, 1, 0)
	id, err := doc.AddBlock("s0", textBlock(""))
	if err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if id != "new-1" {
		t.Errorf("expected generated id new-1, got %q", id)
	}
}

func TestAddBlock_CopiesInput(t *testing.T) {
	doc := newGrid(t, 1, 0)
	b := textBlock("x")
	if _, err := doc.AddBlock("s0", b); err != nil {
		t.Fatal(err)
	}
	b.(*domain.TextBlock).Content = "mutated after insert"
	got := doc.Snapshot().Sections[0].Blocks[0].(*domain.TextBlock)
	if got.Content == "mutated after insert" {
		t.Error("document aliases the caller's block")
	}
}

// ─────────────────────────────────────────────────────────────
// Failures leave the tree and history untouched
// ─────────────────────────────────────────────────────────────

func TestFailedOperations(t *testing.T) {
	tests := []struct {
		name string
		op   func(d *editor.Document) error
		want error
	}{
		{"add to unknown section", func(d *editor.Document) error {
			_, err := d.AddBlock("nope", textBlock(""))
			return err
		}, editor.ErrSectionNotFound},
		{"add nil block", func(d *editor.Document) error {
			_, err := d.AddBlock("s0", nil)
			return err
		}, editor.ErrNilBlock},
		{"add duplicate id", func(d *editor.Document) error {
			_, err := d.AddBlock("s1", textBlock("s0b0"))
			return err
		}, editor.ErrDuplicateID},
		{"add block reusing section id", func(d *editor.Document) error {
			_, err := d.AddBlock("s1", textBlock("s0"))
			return err
		}, editor.ErrDuplicateID},
		{"move unknown block", func(d *editor.Document) error {
			return d.MoveBlock("s0", "ghost", "s1", 0)
		}, editor.ErrBlockNotFound},
		{"move from wrong section", func(d *editor.Document) error {
			return d.MoveBlock("s1", "s0b0", "s1", 0)
		}, editor.ErrBlockNotFound},
		{"move to unknown section", func(d *editor.Document) error {
			return d.MoveBlock("s0", "s0b0", "nope", 0)
		}, editor.ErrSectionNotFound},
		{"move section out of range", func(d *editor.Document) error {
			return d.MoveSection(5, 0)
		}, editor.ErrIndexOutOfRange},
		{"move section negative", func(d *editor.Document) error {
			return d.MoveSection(-1, 0)
		}, editor.ErrIndexOutOfRange},
		{"duplicate unknown block", func(d *editor.Document) error {
			_, err := d.DuplicateBlock("s0", "ghost")
			return err
		}, editor.ErrBlockNotFound},
		{"duplicate unknown section", func(d *editor.Document) error {
			_, err := d.DuplicateSection("ghost")
			return err
		}, editor.ErrSectionNotFound},
		{"delete unknown block", func(d *editor.Document) error {
			return d.DeleteBlock("s0", "ghost")
		}, editor.ErrBlockNotFound},
		{"delete unknown section", func(d *editor.Document) error {
			return d.DeleteSection("ghost")
		}, editor.ErrSectionNotFound},
		{"update unknown block", func(d *editor.Document) error {
			return d.UpdateBlock("s0", textBlock("ghost"))
		}, editor.ErrBlockNotFound},
		{"update section bad layout", func(d *editor.Document) error {
			return d.UpdateSection("s0", "table", nil, domain.DefaultSectionStyle())
		}, editor.ErrInvalidLayout},
		{"add section with duplicate block", func(d *editor.Document) error {
			s := domain.Section{Layout: domain.LayoutFlex, Blocks: []domain.Block{textBlock("s1b1")}}
			_, err := d.AddSection(s)
			return err
		}, editor.ErrDuplicateID},
		{"replace with nil", func(d *editor.Document) error {
			return d.Replace(nil)
		}, editor.ErrNilPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newGrid(t, 2, 2)
			before := doc.Snapshot()

			err := tt.op(doc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !reflect.DeepEqual(before, doc.Snapshot()) {
				t.Error("failed operation modified the tree")
			}
			if doc.CanUndo() {
				t.Error("failed operation pushed history")
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────
// Move
// ─────────────────────────────────────────────────────────────

func TestMoveBlock_SameSectionUsesIndexAfterRemoval(t *testing.T) {
	tests := []struct {
		block  string
		target int
		want   []string
	}{
		{"s0b0", 2, []string{"s0b1", "s0b2", "s0b0", "s0b3"}},
		{"s0b0", 3, []string{"s0b1", "s0b2", "s0b3", "s0b0"}},
		{"s0b0", 99, []string{"s0b1", "s0b2", "s0b3", "s0b0"}},
		{"s0b3", 0, []string{"s0b3", "s0b0", "s0b1", "s0b2"}},
		{"s0b3", -7, []string{"s0b3", "s0b0", "s0b1", "s0b2"}},
		{"s0b1", 1, []string{"s0b0", "s0b1", "s0b2", "s0b3"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %d", tt.block, tt.target), func(t *testing.T) {
			doc := newGrid(t, 1, 4)
			if err := doc.MoveBlock("s0", tt.block, "s0", tt.target); err != nil {
				t.Fatalf("MoveBlock: %v", err)
			}
			if got := blockIDs(doc.Snapshot(), 0); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoveBlock_PreservesCount(t *testing.T) {
	doc := newGrid(t, 3, 3)
	moves := []struct {
		from, block, to string
		idx             int
	}{
		{"s0", "s0b1", "s2", 0},
		{"s2", "s0b1", "s1", 10},
		{"s1", "s1b0", "s1", 2},
		{"s0", "s0b0", "s0", 0},
	}
	for _, m := range moves {
		if err := doc.MoveBlock(m.from, m.block, m.to, m.idx); err != nil {
			t.Fatalf("MoveBlock(%+v): %v", m, err)
		}
		p := doc.Snapshot()
		if got := p.BlockCount(); got != 9 {
			t.Fatalf("block count = %d after %+v", got, m)
		}
		found := 0
		for i := range p.Sections {
			if p.Sections[i].BlockIndex(m.block) >= 0 {
				found++
				if p.Sections[i].ID != m.to {
					t.Errorf("%s ended in %s, want %s", m.block, p.Sections[i].ID, m.to)
				}
			}
		}
		if found != 1 {
			t.Errorf("%s found in %d sections", m.block, found)
		}
	}
}

func TestMoveSection(t *testing.T) {
	doc := newGrid(t, 4, 0)
	if err := doc.MoveSection(0, 2); err != nil {
		t.Fatal(err)
	}
	if err := doc.MoveSection(3, 100); err != nil {
		t.Fatal(err)
	}
	p := doc.Snapshot()
	var got []string
	for _, s := range p.Sections {
		got = append(got, s.ID)
	}
	want := []string{"s1", "s2", "s0", "s3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// ─────────────────────────────────────────────────────────────
// Duplicate / delete
// ─────────────────────────────────────────────────────────────

func TestDuplicateBlock(t *testing.T) {
	doc := newGrid(t, 1, 2)
	id, err := doc.DuplicateBlock("s0", "s0b0")
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Snapshot()
	if got := blockIDs(p, 0); !reflect.DeepEqual(got, []string{"s0b0", id, "s0b1"}) {
		t.Errorf("got %v", got)
	}
	if id == "s0b0" || id == "" {
		t.Errorf("duplicate reused id %q", id)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("page invalid after duplicate: %v", err)
	}
}

func TestDuplicateSection_FreshIDsEverywhere(t *testing.T) {
	doc := newGrid(t, 2, 3)
	id, err := doc.DuplicateSection("s0")
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Snapshot()
	if len(p.Sections) != 3 || p.Sections[1].ID != id {
		t.Fatalf("copy not inserted after original: %+v", p.Sections)
	}
	if len(p.Sections[1].Blocks) != 3 {
		t.Fatalf("copy has %d blocks", len(p.Sections[1].Blocks))
	}
	for _, b := range p.Sections[1].Blocks {
		if p.Sections[0].BlockIndex(b.BlockID()) >= 0 {
			t.Errorf("block id %s reused", b.BlockID())
		}
	}
	if err := p.Validate(); err != nil {
		t.Errorf("page invalid after duplicate: %v", err)
	}

	p.Sections[1].Blocks[0].(*domain.TextBlock).Content = "edited copy"
	if p.Sections[0].Blocks[0].(*domain.TextBlock).Content == "edited copy" {
		t.Error("duplicate shares blocks with original")
	}
}

func TestDeleteSection_RemovesDescendants(t *testing.T) {
	const n, m = 4, 3
	doc := newGrid(t, n, m)
	if err := doc.DeleteSection("s2"); err != nil {
		t.Fatal(err)
	}
	p := doc.Snapshot()
	if len(p.Sections) != n-1 {
		t.Errorf("sections = %d, want %d", len(p.Sections), n-1)
	}
	if p.BlockCount() != (n-1)*m {
		t.Errorf("blocks = %d, want %d", p.BlockCount(), (n-1)*m)
	}
	if _, _, ok := p.LocateBlock("s2b0"); ok {
		t.Error("descendant block survived")
	}
}

func TestDeleteBlock(t *testing.T) {
	doc := newGrid(t, 1, 3)
	if err := doc.DeleteBlock("s0", "s0b1"); err != nil {
		t.Fatal(err)
	}
	if got := blockIDs(doc.Snapshot(), 0); !reflect.DeepEqual(got, []string{"s0b0", "s0b2"}) {
		t.Errorf("got %v", got)
	}
}

// ─────────────────────────────────────────────────────────────
// Undo / redo
// ─────────────────────────────────────────────────────────────

func TestUndoRedo_Symmetry(t *testing.T) {
	ops := map[string]func(d *editor.Document) error{
		"add":               func(d *editor.Document) error { _, err := d.AddBlock("s1", textBlock(""), 0); return err },
		"move":              func(d *editor.Document) error { return d.MoveBlock("s0", "s0b0", "s1", 1) },
		"move section":      func(d *editor.Document) error { return d.MoveSection(0, 1) },
		"duplicate block":   func(d *editor.Document) error { _, err := d.DuplicateBlock("s1", "s1b1"); return err },
		"duplicate section": func(d *editor.Document) error { _, err := d.DuplicateSection("s0"); return err },
		"delete block":      func(d *editor.Document) error { return d.DeleteBlock("s0", "s0b1") },
		"delete section":    func(d *editor.Document) error { return d.DeleteSection("s1") },
		"update block": func(d *editor.Document) error {
			b := textBlock("s0b0")
			b.(*domain.TextBlock).Content = "new"
			return d.UpdateBlock("s0", b)
		},
		"update section": func(d *editor.Document) error {
			st := domain.DefaultSectionStyle()
			st.BackgroundColor = "#000"
			return d.UpdateSection("s0", domain.LayoutGrid, domain.IntPtr(3), st)
		},
		"rename": func(d *editor.Document) error { return d.RenamePage("Renamed", "Renamed Page") },
		"replace": func(d *editor.Document) error {
			return d.Replace(domain.NewPage(domain.NewSequenceGenerator("r"), "Other"))
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			doc := newGrid(t, 2, 2)
			before := doc.Snapshot()
			if err := op(doc); err != nil {
				t.Fatalf("op: %v", err)
			}
			after := doc.Snapshot()
			if reflect.DeepEqual(before, after) {
				t.Fatal("operation did not change the tree")
			}

			if err := doc.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if !reflect.DeepEqual(before, doc.Snapshot()) {
				t.Error("undo did not restore the prior tree")
			}
			if err := doc.Redo(); err != nil {
				t.Fatalf("Redo: %v", err)
			}
			if !reflect.DeepEqual(after, doc.Snapshot()) {
				t.Error("redo did not restore the post-op tree")
			}
		})
	}
}

func TestUndoRedo_Empty(t *testing.T) {
	doc := newGrid(t, 1, 1)
	if err := doc.Undo(); !errors.Is(err, editor.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := doc.Redo(); !errors.Is(err, editor.ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestNewMutationClearsRedo(t *testing.T) {
	doc := newGrid(t, 1, 3)
	_ = doc.DeleteBlock("s0", "s0b0")
	_ = doc.Undo()
	if !doc.CanRedo() {
		t.Fatal("expected redo entry")
	}
	_ = doc.DeleteBlock("s0", "s0b1")
	if doc.CanRedo() {
		t.Error("new mutation should clear redo")
	}
	h := doc.History()
	if !reflect.DeepEqual(h.Undo, []string{"delete block"}) || len(h.Redo) != 0 {
		t.Errorf("history = %+v", h)
	}
}

func TestHistoryLimit(t *testing.T) {
	p := domain.NewPage(domain.NewSequenceGenerator("h"), "Limited")
	doc := editor.New(p, domain.NewSequenceGenerator("n"), editor.WithHistoryLimit(3))
	for i := 0; i < 5; i++ {
		if err := doc.RenamePage(fmt.Sprintf("name %d", i), ""); err != nil {
			t.Fatal(err)
		}
	}
	undone := 0
	for doc.Undo() == nil {
		undone++
	}
	if undone != 3 {
		t.Errorf("undid %d steps, want 3", undone)
	}
	if got := doc.Snapshot().Name; got != "name 1" {
		t.Errorf("oldest reachable name = %q, want %q", got, "name 1")
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	doc := newGrid(t, 1, 1)
	snap := doc.Snapshot()
	snap.Sections[0].Blocks = nil
	snap.Name = "changed"
	if doc.Snapshot().Name == "changed" || doc.Snapshot().BlockCount() != 1 {
		t.Error("snapshot aliases live tree")
	}
}

func TestNew_NilPageStartsDefault(t *testing.T) {
	doc := editor.New(nil, domain.NewSequenceGenerator("d"))
	p := doc.Snapshot()
	if len(p.Sections) != 1 || p.BlockCount() != 1 {
		t.Errorf("unexpected default page: %+v", p)
	}
}

func TestAddSection(t *testing.T) {
	doc := newGrid(t, 2, 0)
	s := domain.NewSection(domain.NewSequenceGenerator("tmp"))
	s.ID = ""
	s.Blocks = []domain.Block{textBlock(""), textBlock("")}
	id, err := doc.AddSection(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Snapshot()
	if p.Sections[1].ID != id {
		t.Fatalf("section not inserted at 1")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("invalid after AddSection: %v", err)
	}
}

func TestVersion(t *testing.T) {
	d := editor.New(nil, domain.NewSequenceGenerator("v"))
	if d.Version() != 0 {
		t.Fatalf("fresh version = %d", d.Version())
	}
	if err := d.RenamePage("A", ""); err != nil {
		t.Fatal(err)
	}
	if err := d.DeleteSection("missing"); err == nil {
		t.Fatal("expected failure")
	}
	if d.Version() != 1 {
		t.Errorf("version after one change and one rejection = %d", d.Version())
	}
	_ = d.Undo()
	_ = d.Redo()
	if d.Version() != 3 {
		t.Errorf("version after undo+redo = %d", d.Version())
	}
}
