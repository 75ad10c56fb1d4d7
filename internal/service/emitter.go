package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Events emitted by PageService.
const (
	EventPageChanged   = "page:changed"
	EventPagePublished = "page:published"
	EventPageImported  = "page:imported"
	EventPageDeleted   = "page:deleted"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from the outer UI
// ─────────────────────────────────────────────────────────────

// EventEmitter notifies whatever drives the editor (MCP client, HTTP
// preview) that a page changed. Implementations must be safe for
// concurrent use; the scheduler emits from its own goroutines.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// EmitterFunc adapts a plain function to the EventEmitter interface.
type EmitterFunc func(ctx context.Context, event string, data any)

func (f EmitterFunc) Emit(ctx context.Context, event string, data any) { f(ctx, event, data) }

// Emitters fans one event out to several emitters.
type Emitters []EventEmitter

func (es Emitters) Emit(ctx context.Context, event string, data any) {
	for _, e := range es {
		if e != nil {
			e.Emit(ctx, event, data)
		}
	}
}

// LogEmitter writes every event to the log at debug level.
func LogEmitter(log *zap.Logger) EventEmitter {
	log = log.Named("events")
	return EmitterFunc(func(_ context.Context, event string, data any) {
		log.Debug("emit", zap.String("event", event), zap.Any("data", data))
	})
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Named returns the recorded emissions of one event.
func (m *MockEmitter) Named(event string) []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []EmittedEvent
	for _, e := range m.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
