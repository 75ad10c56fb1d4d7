package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap/zaptest"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "pages.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	ids := domain.NewSequenceGenerator("id-")
	pages := service.NewPageService(storage.NewPageStore(db), storage.NewRevisionStore(db, 0), nil, service.PageOptions{
		PublishDir: filepath.Join(dir, "public"),
		IDs:        ids,
		Log:        zaptest.NewLogger(t),
	})
	return New(Deps{Pages: pages, IDs: ids, Log: zaptest.NewLogger(t)})
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", res.Content[0])
	}
	return tc.Text
}

type mutation struct {
	Page      domain.Page `json:"page"`
	SectionID string      `json:"sectionId"`
	BlockID   string      `json:"blockId"`
}

func decode(t *testing.T, res *mcp.CallToolResult) mutation {
	t.Helper()
	var m mutation
	if err := json.Unmarshal([]byte(text(t, res)), &m); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return m
}

func mustCall(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := h(context.Background(), call(args))
	if err != nil {
		t.Fatalf("tool failed: %v", err)
	}
	return res
}

// createActive makes a page through the tool and returns its first section.
func createActive(t *testing.T, s *Server) (pageID, sectionID string) {
	t.Helper()
	var p domain.Page
	if err := json.Unmarshal([]byte(text(t, mustCall(t, s.handleCreatePage, map[string]any{"name": "Launch"}))), &p); err != nil {
		t.Fatal(err)
	}
	return p.ID, p.Sections[0].ID
}

// ─────────────────────────────────────────────────────────────
// Page tools
// ─────────────────────────────────────────────────────────────

func TestCreatePage_SetsActive(t *testing.T) {
	s := newTestServer(t)
	pageID, _ := createActive(t, s)

	res := mustCall(t, s.handleGetPage, nil)
	var p domain.Page
	if err := json.Unmarshal([]byte(text(t, res)), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != pageID || p.Name != "Launch" {
		t.Errorf("active page = %s %q", p.ID, p.Name)
	}

	list := text(t, mustCall(t, s.handleListPages, nil))
	if !strings.Contains(list, pageID) {
		t.Errorf("list_pages missing %s: %s", pageID, list)
	}
}

func TestResolvePageID_NoActive(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.handleGetPage(context.Background(), call(nil)); err == nil {
		t.Fatal("expected error without active page")
	}
	if _, err := s.handleSetActivePage(context.Background(), call(map[string]any{"pageId": "missing"})); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("set_active_page on missing page: %v", err)
	}
}

func TestCreatePage_RequiresName(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.handleCreatePage(context.Background(), call(map[string]any{})); err == nil {
		t.Fatal("expected error for missing name")
	}
}

// ─────────────────────────────────────────────────────────────
// Section and block tools
// ─────────────────────────────────────────────────────────────

func TestAddBlock_WithFields(t *testing.T) {
	s := newTestServer(t)
	_, sectionID := createActive(t, s)

	m := decode(t, mustCall(t, s.handleAddBlock, map[string]any{
		"sectionId": sectionID,
		"type":      "button",
		"fields":    `{"text":"Buy now","link":"https://shop.example.com"}`,
		"index":     0,
	}))
	if m.BlockID == "" {
		t.Fatal("no block id returned")
	}
	first := m.Page.Sections[0].Blocks[0]
	btn, ok := first.(*domain.ButtonBlock)
	if !ok || btn.ID != m.BlockID {
		t.Fatalf("first block = %T %s", first, first.BlockID())
	}
	if btn.Text != "Buy now" {
		t.Errorf("text = %q", btn.Text)
	}
}

func TestAddBlock_Rejects(t *testing.T) {
	s := newTestServer(t)
	_, sectionID := createActive(t, s)

	tests := []struct {
		name string
		args map[string]any
		want error
	}{
		{"unknown type", map[string]any{"sectionId": sectionID, "type": "carousel"}, domain.ErrUnknownBlockType},
		{"missing section", map[string]any{"sectionId": "nope", "type": "text"}, editor.ErrSectionNotFound},
		{"type change", map[string]any{"sectionId": sectionID, "type": "text", "fields": `{"type":"image"}`}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleAddBlock(context.Background(), call(tt.args))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateBlock_KeepsIdentity(t *testing.T) {
	s := newTestServer(t)
	_, sectionID := createActive(t, s)
	added := decode(t, mustCall(t, s.handleAddBlock, map[string]any{"sectionId": sectionID, "type": "text"}))

	m := decode(t, mustCall(t, s.handleUpdateBlock, map[string]any{
		"blockId": added.BlockID,
		"fields":  `{"id":"hijack","content":"<p>Updated</p>"}`,
	}))
	si, bi, ok := m.Page.LocateBlock(added.BlockID)
	if !ok {
		t.Fatal("block lost its id")
	}
	tb := m.Page.Sections[si].Blocks[bi].(*domain.TextBlock)
	if tb.Content != "<p>Updated</p>" {
		t.Errorf("content = %q", tb.Content)
	}

	if _, err := s.handleUpdateBlock(context.Background(), call(map[string]any{
		"blockId": "ghost", "fields": `{}`,
	})); !errors.Is(err, editor.ErrBlockNotFound) {
		t.Errorf("update missing block: %v", err)
	}
}

func TestMoveBlock_AcrossSections(t *testing.T) {
	s := newTestServer(t)
	_, first := createActive(t, s)
	second := decode(t, mustCall(t, s.handleAddSection, map[string]any{"layout": "grid", "columns": 3})).SectionID

	page := decode(t, mustCall(t, s.handleGetPageAsMutation, nil)).Page
	blockID := page.Sections[0].Blocks[0].BlockID()

	m := decode(t, mustCall(t, s.handleMoveBlock, map[string]any{
		"blockId": blockID, "toSectionId": second, "index": 0,
	}))
	if len(m.Page.Sections[0].Blocks) != 0 || m.Page.Sections[1].Blocks[0].BlockID() != blockID {
		t.Errorf("block not moved from %s to %s", first, second)
	}
	if m.Page.Sections[1].Layout != domain.LayoutGrid || *m.Page.Sections[1].Columns != 3 {
		t.Errorf("new section = %+v", m.Page.Sections[1])
	}
}

func TestDuplicateAndDelete(t *testing.T) {
	s := newTestServer(t)
	_, sectionID := createActive(t, s)

	dup := decode(t, mustCall(t, s.handleDuplicateSection, map[string]any{"sectionId": sectionID}))
	if len(dup.Page.Sections) != 2 || dup.SectionID == sectionID {
		t.Fatalf("duplicate section = %d sections, id %s", len(dup.Page.Sections), dup.SectionID)
	}
	blockID := dup.Page.Sections[0].Blocks[0].BlockID()
	copyBlock := decode(t, mustCall(t, s.handleDuplicateBlock, map[string]any{"blockId": blockID}))
	if copyBlock.Page.BlockCount() != 3 {
		t.Fatalf("block count = %d", copyBlock.Page.BlockCount())
	}

	del := decode(t, mustCall(t, s.handleDeleteBlock, map[string]any{"blockId": copyBlock.BlockID}))
	if del.Page.BlockCount() != 2 {
		t.Errorf("after delete block = %d", del.Page.BlockCount())
	}
	del = decode(t, mustCall(t, s.handleDeleteSection, map[string]any{"sectionId": dup.SectionID}))
	if len(del.Page.Sections) != 1 {
		t.Errorf("after delete section = %d", len(del.Page.Sections))
	}

	moved := decode(t, mustCall(t, s.handleMoveSection, map[string]any{"from": 0, "to": 5}))
	if len(moved.Page.Sections) != 1 {
		t.Errorf("move section changed count")
	}
}

func TestUpdateSection(t *testing.T) {
	s := newTestServer(t)
	_, sectionID := createActive(t, s)

	m := decode(t, mustCall(t, s.handleUpdateSection, map[string]any{
		"sectionId": sectionID,
		"layout":    "grid",
		"columns":   2,
		"style":     `{"backgroundColor":"#ff0000"}`,
	}))
	sec := m.Page.Sections[0]
	if sec.Layout != domain.LayoutGrid || sec.Columns == nil || *sec.Columns != 2 {
		t.Errorf("layout = %s %v", sec.Layout, sec.Columns)
	}
	if sec.Style.BackgroundColor != "#ff0000" || sec.Style.MaxWidth != 1200 {
		t.Errorf("style = %+v", sec.Style)
	}
}

func TestRenamePage_Slug(t *testing.T) {
	s := newTestServer(t)
	createActive(t, s)

	m := decode(t, mustCall(t, s.handleRenamePage, map[string]any{"name": "Launch Week"}))
	if m.Page.Name != "Launch Week" || m.Page.Slug != "launch" {
		t.Errorf("name-only rename = %q / %q, want slug kept", m.Page.Name, m.Page.Slug)
	}

	m = decode(t, mustCall(t, s.handleRenamePage, map[string]any{"name": "Launch Week", "slug": "Launch Week"}))
	if m.Page.Slug != "launch-week" {
		t.Errorf("slug = %q", m.Page.Slug)
	}
}

func TestUndoRedo(t *testing.T) {
	s := newTestServer(t)
	_, sectionID := createActive(t, s)
	mustCall(t, s.handleAddBlock, map[string]any{"sectionId": sectionID, "type": "divider"})

	if m := decode(t, mustCall(t, s.handleUndo, nil)); m.Page.BlockCount() != 1 {
		t.Errorf("after undo = %d blocks", m.Page.BlockCount())
	}
	if m := decode(t, mustCall(t, s.handleRedo, nil)); m.Page.BlockCount() != 2 {
		t.Errorf("after redo = %d blocks", m.Page.BlockCount())
	}
	if _, err := s.handleRedo(context.Background(), call(nil)); !errors.Is(err, editor.ErrNothingToRedo) {
		t.Errorf("redo on empty stack: %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Import, export, publish
// ─────────────────────────────────────────────────────────────

func TestImportAndDetect(t *testing.T) {
	s := newTestServer(t)
	product := `{"hero":{"headline":"Big Sale","cta_text":"Buy"},"faq":[{"q":"Q1","a":"A1"}]}`

	det := text(t, mustCall(t, s.handleDetectSchema, map[string]any{"json": product}))
	if !strings.Contains(det, `"product-ecommerce"`) {
		t.Errorf("detect = %s", det)
	}

	res := text(t, mustCall(t, s.handleImportJSON, map[string]any{"json": product}))
	var out struct {
		PageID   string `json:"pageId"`
		Sections int    `json:"sections"`
	}
	if err := json.Unmarshal([]byte(res), &out); err != nil {
		t.Fatal(err)
	}
	if out.Sections < 2 {
		t.Errorf("imported sections = %d", out.Sections)
	}

	// the imported page became active
	m := decode(t, mustCall(t, s.handleGetPageAsMutation, nil))
	if m.Page.ID != out.PageID {
		t.Errorf("active = %s, imported %s", m.Page.ID, out.PageID)
	}

	if _, err := s.handleImportJSON(context.Background(), call(map[string]any{"json": `{"foo":1}`})); err == nil {
		t.Error("expected unknown schema error")
	}
}

func TestExportAndPublish(t *testing.T) {
	s := newTestServer(t)
	createActive(t, s)

	doc := text(t, mustCall(t, s.handleExportPage, nil))
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Errorf("export = %.40q", doc)
	}
	if strings.Contains(doc, "data-section-id") {
		t.Error("plain export carries annotations")
	}
	preview := text(t, mustCall(t, s.handleExportPage, map[string]any{"annotate": true}))
	if !strings.Contains(preview, "data-section-id") {
		t.Error("annotated export missing section ids")
	}

	var res service.PublishResult
	if err := json.Unmarshal([]byte(text(t, mustCall(t, s.handlePublishPage, nil))), &res); err != nil {
		t.Fatal(err)
	}
	if res.Slug != "launch" || filepath.Base(res.Path) != "launch.html" {
		t.Errorf("publish = %+v", res)
	}
}

// ─────────────────────────────────────────────────────────────
// Resources
// ─────────────────────────────────────────────────────────────

func TestExtractPageIDFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"pagebuilder://page/abc-123/document", "abc-123"},
		{"pagebuilder://page//document", ""},
		{"pagebuilder://page/a/b/document", ""},
		{"pagebuilder://pages", ""},
		{"notes://page/x/document", ""},
	}
	for _, tt := range tests {
		if got := extractPageIDFromURI(tt.uri); got != tt.want {
			t.Errorf("extractPageIDFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestDocumentResource(t *testing.T) {
	s := newTestServer(t)
	pageID, _ := createActive(t, s)

	var req mcp.ReadResourceRequest
	req.Params.URI = "pagebuilder://page/" + pageID + "/document"
	contents, err := s.handlePageDocumentResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	body := contents[0].(mcp.TextResourceContents).Text
	if _, err := domain.ParsePage([]byte(body)); err != nil {
		t.Errorf("resource is not a page document: %v", err)
	}

	contents, err = s.handlePagesResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(contents[0].(mcp.TextResourceContents).Text, pageID) {
		t.Error("pages resource missing the page")
	}
}

// handleGetPageAsMutation wraps get_page output in the mutation shape.
func (s *Server) handleGetPageAsMutation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Snapshot(pageID)
	if err != nil {
		return nil, err
	}
	return pageResult(p, "", "")
}
