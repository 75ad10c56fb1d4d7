package app

import (
	"context"
	"sync"

	"pagebuilder/internal/service"
)

// relay forwards page events to receivers attached after the services
// were built, such as the MCP server.
type relay struct {
	mu      sync.RWMutex
	targets service.Emitters
}

func (r *relay) attach(e service.EventEmitter) {
	r.mu.Lock()
	r.targets = append(r.targets, e)
	r.mu.Unlock()
}

func (r *relay) Emit(ctx context.Context, event string, data any) {
	r.mu.RLock()
	targets := r.targets
	r.mu.RUnlock()
	targets.Emit(ctx, event, data)
}
