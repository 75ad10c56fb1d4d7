package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
)

// NotificationMethod carries page events to connected clients.
const NotificationMethod = "notifications/pagebuilder/event"

// Server is the MCP server for the page builder.
// It exposes tools, resources, and prompts so agents can edit and publish pages.
type Server struct {
	mcp   *server.MCPServer
	pages *service.PageService
	ids   domain.IDGenerator
	log   *zap.Logger

	// Active page context (set by set_active_page and create_page)
	mu           sync.Mutex
	activePageID string
}

// Deps holds the dependencies passed from the app layer to the MCP server.
type Deps struct {
	Pages   *service.PageService
	IDs     domain.IDGenerator
	Log     *zap.Logger
	Version string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	if deps.IDs == nil {
		deps.IDs = domain.UUIDGenerator{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	s := &Server{
		pages: deps.Pages,
		ids:   deps.IDs,
		log:   deps.Log.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerSectionTools()
	s.registerBlockTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio runs the server on the given streams until ctx is done or
// the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info("Starting stdio server")
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.log))
	return stdio.Listen(ctx, in, out)
}

// Emit forwards service events to every connected client. It satisfies
// service.EventEmitter.
func (s *Server) Emit(_ context.Context, event string, data any) {
	s.mcp.SendNotificationToAllClients(NotificationMethod, map[string]any{
		"event": event,
		"data":  data,
	})
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) setActive(pageID string) {
	s.mu.Lock()
	s.activePageID = pageID
	s.mu.Unlock()
}

// resolvePageID returns the pageId argument or falls back to the active page.
func (s *Server) resolvePageID(req mcp.CallToolRequest) (string, error) {
	if pid := req.GetString("pageId", ""); pid != "" {
		return pid, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activePageID != "" {
		return s.activePageID, nil
	}
	return "", fmt.Errorf("no pageId provided and no active page set (use set_active_page first)")
}

// optionalIndex returns the integer argument as a one-element slice, or
// nil when absent, matching the editor's variadic position arguments.
func optionalIndex(req mcp.CallToolRequest, key string) []int {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	return []int{req.GetInt(key, 0)}
}

// pageResult reports the page after a mutation along with an extra field.
func pageResult(p *domain.Page, key, value string) (*mcp.CallToolResult, error) {
	out := map[string]any{"page": p}
	if key != "" {
		out[key] = value
	}
	return jsonResult(out)
}
