package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	pagesURI       = "pagebuilder://pages"
	pageURIPrefix  = "pagebuilder://page/"
	documentSuffix = "/document"
)

func (s *Server) registerResources() {
	// ── pagebuilder://pages ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		pagesURI,
		"All Pages",
		mcp.WithResourceDescription("Stored pages with section and block counts"),
		mcp.WithMIMEType("application/json"),
	), s.handlePagesResource)

	// ── pagebuilder://page/{pageId}/document ───────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			pageURIPrefix+"{pageId}"+documentSuffix,
			"Page Document",
			mcp.WithTemplateDescription("The native JSON document of a page"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handlePageDocumentResource,
	)
}

func (s *Server) handlePagesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	pages, err := s.pages.ListPages()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      pagesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := extractPageIDFromURI(uri)
	if pageID == "" {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}

	p, err := s.pages.Snapshot(pageID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractPageIDFromURI extracts the page ID from "pagebuilder://page/{id}/document".
func extractPageIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, pageURIPrefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, documentSuffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
