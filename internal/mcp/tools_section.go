package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

func (s *Server) registerSectionTools() {
	// ── add_section ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_section",
		mcp.WithDescription("Add an empty section to the page. Appended unless index is given."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("layout", mcp.Description("flex (default) or grid"), mcp.Enum("flex", "grid")),
		mcp.WithNumber("columns", mcp.Description("Grid column count (optional)")),
		mcp.WithString("style", mcp.Description("JSON object of style fields overriding the defaults (optional)")),
		mcp.WithNumber("index", mcp.Description("Position among sections (optional)")),
	), s.handleAddSection)

	// ── update_section ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_section",
		mcp.WithDescription("Change a section's layout, column count or style. Omitted fields are kept."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("layout", mcp.Description("flex or grid"), mcp.Enum("flex", "grid")),
		mcp.WithNumber("columns", mcp.Description("Grid column count")),
		mcp.WithString("style", mcp.Description("JSON object of style fields to change")),
	), s.handleUpdateSection)

	// ── move_section ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_section",
		mcp.WithDescription("Move the section at index from to index to"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	), s.handleMoveSection)

	// ── duplicate_section ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_section",
		mcp.WithDescription("Copy a section and its blocks right after the original"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
	), s.handleDuplicateSection)

	// ── delete_section (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_section",
		mcp.WithDescription("Delete a section and every block in it. Undo restores it."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSection)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	sec := domain.NewSection(s.ids)
	sec.Layout = domain.LayoutKind(req.GetString("layout", string(domain.LayoutFlex)))
	if _, ok := req.GetArguments()["columns"]; ok {
		sec.Columns = domain.IntPtr(req.GetInt("columns", 1))
	}
	if raw := req.GetString("style", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sec.Style); err != nil {
			return nil, fmt.Errorf("style: %w", err)
		}
	}

	var id string
	p, err := s.pages.Edit(ctx, pageID, "add section", func(d *editor.Document) error {
		id, err = d.AddSection(sec, optionalIndex(req, "index")...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add section: %w", err)
	}
	return pageResult(p, "sectionId", id)
}

func (s *Server) handleUpdateSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	sectionID, err := req.RequireString("sectionId")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "update section", func(d *editor.Document) error {
		snap := d.Snapshot()
		i := snap.SectionIndex(sectionID)
		if i < 0 {
			return fmt.Errorf("%w: %s", editor.ErrSectionNotFound, sectionID)
		}
		cur := snap.Sections[i]
		layout := domain.LayoutKind(req.GetString("layout", string(cur.Layout)))
		columns := cur.Columns
		if _, ok := req.GetArguments()["columns"]; ok {
			columns = domain.IntPtr(req.GetInt("columns", 1))
		}
		style := cur.Style
		if raw := req.GetString("style", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &style); err != nil {
				return fmt.Errorf("style: %w", err)
			}
		}
		return d.UpdateSection(sectionID, layout, columns, style)
	})
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleMoveSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	from, err := req.RequireInt("from")
	if err != nil {
		return nil, err
	}
	to, err := req.RequireInt("to")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "move section", func(d *editor.Document) error {
		return d.MoveSection(from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("move section: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleDuplicateSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	sectionID, err := req.RequireString("sectionId")
	if err != nil {
		return nil, err
	}
	var id string
	p, err := s.pages.Edit(ctx, pageID, "duplicate section", func(d *editor.Document) error {
		id, err = d.DuplicateSection(sectionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("duplicate section: %w", err)
	}
	return pageResult(p, "sectionId", id)
}

func (s *Server) handleDeleteSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	sectionID, err := req.RequireString("sectionId")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "delete section", func(d *editor.Document) error {
		return d.DeleteSection(sectionID)
	})
	if err != nil {
		return nil, fmt.Errorf("delete section: %w", err)
	}
	return pageResult(p, "", "")
}
