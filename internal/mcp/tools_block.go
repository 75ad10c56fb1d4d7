package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

func blockTypeNames() []string {
	types := domain.BlockTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func (s *Server) registerBlockTools() {
	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block to a section. It starts with placeholder content; pass fields to override it. Appended unless index is given."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("type",
			mcp.Description("Block type: "+strings.Join(blockTypeNames(), ", ")),
			mcp.Enum(blockTypeNames()...),
			mcp.Required(),
		),
		mcp.WithString("fields", mcp.Description("JSON object of block fields, e.g. {\"content\":\"<p>Hi</p>\"} (optional)")),
		mcp.WithNumber("index", mcp.Description("Position within the section (optional)")),
	), s.handleAddBlock)

	// ── update_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Change fields of an existing block. Fields not given are kept; id and type cannot change."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("fields", mcp.Description("JSON object of block fields to change"), mcp.Required()),
	), s.handleUpdateBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block to a position in the same or another section"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("toSectionId", mcp.Description("Destination section (optional, defaults to the block's section)")),
		mcp.WithNumber("index", mcp.Description("Target index in the destination"), mcp.Required()),
	), s.handleMoveBlock)

	// ── duplicate_block ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_block",
		mcp.WithDescription("Copy a block right after the original"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleDuplicateBlock)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block. Undo restores it."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)
}

// locate finds the section holding blockID in the document.
func locate(d *editor.Document, blockID string) (*domain.Page, int, int, error) {
	p := d.Snapshot()
	si, bi, ok := p.LocateBlock(blockID)
	if !ok {
		return nil, 0, 0, fmt.Errorf("%w: %s", editor.ErrBlockNotFound, blockID)
	}
	return p, si, bi, nil
}

// overlay decodes fields onto b. The block keeps its ID and type.
func overlay(b domain.Block, fields string) error {
	if fields == "" {
		return nil
	}
	id, t := b.BlockID(), b.BlockType()
	if err := json.Unmarshal([]byte(fields), b); err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	if b.BlockType() != t {
		return fmt.Errorf("fields: type cannot change from %s", t)
	}
	b.SetBlockID(id)
	return nil
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	sectionID, err := req.RequireString("sectionId")
	if err != nil {
		return nil, err
	}
	blockType, err := req.RequireString("type")
	if err != nil {
		return nil, err
	}
	b, err := domain.NewBlock(s.ids, domain.BlockType(blockType))
	if err != nil {
		return nil, err
	}
	if err := overlay(b, req.GetString("fields", "")); err != nil {
		return nil, err
	}
	// the document stamps an ID unique within the page
	b.SetBlockID("")

	var id string
	p, err := s.pages.Edit(ctx, pageID, "add block", func(d *editor.Document) error {
		id, err = d.AddBlock(sectionID, b, optionalIndex(req, "index")...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add block: %w", err)
	}
	return pageResult(p, "blockId", id)
}

func (s *Server) handleUpdateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	blockID, err := req.RequireString("blockId")
	if err != nil {
		return nil, err
	}
	fields, err := req.RequireString("fields")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "update block", func(d *editor.Document) error {
		snap, si, bi, err := locate(d, blockID)
		if err != nil {
			return err
		}
		b := snap.Sections[si].Blocks[bi]
		if err := overlay(b, fields); err != nil {
			return err
		}
		// snap owns b, so validating snap checks the candidate in place
		if err := snap.Validate(); err != nil {
			return err
		}
		return d.UpdateBlock(snap.Sections[si].ID, b)
	})
	if err != nil {
		return nil, fmt.Errorf("update block: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	blockID, err := req.RequireString("blockId")
	if err != nil {
		return nil, err
	}
	index, err := req.RequireInt("index")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "move block", func(d *editor.Document) error {
		snap, si, _, err := locate(d, blockID)
		if err != nil {
			return err
		}
		from := snap.Sections[si].ID
		return d.MoveBlock(from, blockID, req.GetString("toSectionId", from), index)
	})
	if err != nil {
		return nil, fmt.Errorf("move block: %w", err)
	}
	return pageResult(p, "", "")
}

func (s *Server) handleDuplicateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	blockID, err := req.RequireString("blockId")
	if err != nil {
		return nil, err
	}
	var id string
	p, err := s.pages.Edit(ctx, pageID, "duplicate block", func(d *editor.Document) error {
		snap, si, _, err := locate(d, blockID)
		if err != nil {
			return err
		}
		id, err = d.DuplicateBlock(snap.Sections[si].ID, blockID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("duplicate block: %w", err)
	}
	return pageResult(p, "blockId", id)
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req)
	if err != nil {
		return nil, err
	}
	blockID, err := req.RequireString("blockId")
	if err != nil {
		return nil, err
	}
	p, err := s.pages.Edit(ctx, pageID, "delete block", func(d *editor.Document) error {
		snap, si, _, err := locate(d, blockID)
		if err != nil {
			return err
		}
		return d.DeleteBlock(snap.Sections[si].ID, blockID)
	})
	if err != nil {
		return nil, fmt.Errorf("delete block: %w", err)
	}
	return pageResult(p, "", "")
}
