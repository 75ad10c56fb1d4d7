package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/editor"
	"pagebuilder/internal/schema"
)

func (s *Server) registerPageTools() {
	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new page and make it the active page"),
		mcp.WithString("name", mcp.Description("Name of the new page"), mcp.Required()),
	), s.handleCreatePage)

	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all stored pages"),
	), s.handleListPages)

	// ── set_active_page ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_page",
		mcp.WithDescription("Set the active page for subsequent tool calls. Tools that accept pageId will default to this."),
		mcp.WithString("pageId", mcp.Description("ID of the page to make active"), mcp.Required()),
	), s.handleSetActivePage)

	// ── get_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Return the full page document: sections, blocks and styles"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleGetPage)

	// ── rename_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_page",
		mcp.WithDescription("Set the page name and URL slug"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
		mcp.WithString("slug", mcp.Description("URL slug (optional, the current slug is kept when omitted)")),
	), s.handleRenamePage)

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change to the page"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleUndo)
	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change to the page"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleRedo)

	// ── export_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_page",
		mcp.WithDescription("Render the page as a standalone HTML document"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithBoolean("annotate", mcp.Description("Mark sections and blocks with their IDs (live preview)")),
	), s.handleExportPage)

	// ── publish_page ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("publish_page",
		mcp.WithDescription("Write the page into the publish directory as <slug>.html"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handlePublishPage)

	// ── import_json ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_json",
		mcp.WithDescription("Import a native page document or a product-schema JSON. Creates a new page unless targetPageId is given."),
		mcp.WithString("json", mcp.Description("The JSON document"), mcp.Required()),
		mcp.WithString("targetPageId", mcp.Description("Replace this page's content instead of creating a page (optional)")),
	), s.handleImportJSON)

	// ── detect_schema ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("detect_schema",
		mcp.WithDescription("Report which schema a JSON document follows, without importing it"),
		mcp.WithString("json", mcp.Description("The JSON document"), mcp.Required()),
	), s.handleDetectSchema)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.CreatePage(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.setActive(p.ID)
	return jsonResult(p)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages.ListPages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return jsonResult(pages)
}

func (s *Server) handleSetActivePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := req.RequireString("pageId")
	if err != nil {
		return nil, err
	}
	if _, err := s.pages.Open(pageID); err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	s.setActive(pageID)
	return textResult(fmt.Sprintf("Active page set to %s", pageID)), nil
}

func (s *Server) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Snapshot(pageID)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return jsonResult(p)
}

func (s *Server) handleRenamePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	name, err := req.RequireString("name")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "rename page", func(d *editor.Document) error {
		return d.RenamePage(name, req.GetString("slug", d.Snapshot().Slug))
	})
	if err != nil {
		return nil, fmt.Errorf("rename page: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Undo(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Redo(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleExportPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	render := s.pages.Export
	if req.GetBool("annotate", false) {
		render = s.pages.Preview
	}
	doc, err := render(pageID)
	if err != nil {
		return nil, fmt.Errorf("export page: %w", err)
	}
	return textResult(doc), nil
}

func (s *Server) handlePublishPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	res, err := s.pages.Publish(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}
	return jsonResult(res)
}

func (s *Server) handleImportJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := req.RequireString("json")
	if err != nil {
		return nil, err
	}
	target := req.GetString("targetPageId", "")
	res, err := s.pages.Import(ctx, []byte(data), target)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", res.SchemaType, err)
	}
	s.setActive(res.Page.ID)
	return jsonResult(map[string]any{
		"schemaType": res.SchemaType,
		"confidence": res.Confidence,
		"pageId":     res.Page.ID,
		"slug":       res.Page.Slug,
		"sections":   len(res.Page.Sections),
		"blocks":     res.Page.BlockCount(),
	})
}

func (s *Server) handleDetectSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := req.RequireString("json")
	if err != nil {
		return nil, err
	}
	return jsonResult(schema.Detect([]byte(data)))
}
