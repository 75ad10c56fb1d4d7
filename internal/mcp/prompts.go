package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("landing_page",
		mcp.WithPromptDescription("Guide through building a landing page section by section"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("Product or campaign the page is for"),
			mcp.RequiredArgument(),
		),
	), s.handleLandingPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("import_product",
		mcp.WithPromptDescription("Turn a product JSON feed into a page and publish it"),
		mcp.WithArgument("json",
			mcp.ArgumentDescription("Product-schema JSON with hero, variants, faq, reviews or theme"),
			mcp.RequiredArgument(),
		),
	), s.handleImportProductPrompt)
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page for "%s".

Steps:
1. Use create_page with a short name; it becomes the active page.
2. The page starts with one section. Use add_section for each part: hero, features, social proof, pricing, FAQ, call to action.
3. Fill each section with add_block. Available types: %s.
   Pass "fields" to set content, e.g. {"content":"<h1>Title</h1>"} for text or {"src":"https://..."} for image.
4. Use update_section with layout "grid" and columns for card rows.
5. Check the result with export_page (annotate true shows IDs), fix mistakes with update_block or undo.
6. When done, call publish_page.`, topic, strings.Join(blockTypeNames(), ", ")),
				},
			},
		},
	}, nil
}

func (s *Server) handleImportProductPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	data := req.Params.Arguments["json"]
	return &mcp.GetPromptResult{
		Description: "Import a product feed",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Import this product JSON as a page.

1. Call detect_schema first. If the type is "unknown", stop and report which fields are missing.
2. Call import_json; the new page becomes active.
3. Review it with get_page and tighten the copy with update_block where needed.
4. Call publish_page and report the path.

JSON:
%s`, data),
				},
			},
		},
	}, nil
}
