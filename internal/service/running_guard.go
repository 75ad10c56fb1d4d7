package service

import (
	"context"
	"sync"
)

// ExportedPublishGuard is an exported alias so _test packages can test the guard.
type ExportedPublishGuard = publishGuard

// ─────────────────────────────────────────────────────────────
// publishGuard: refuses a second concurrent publish of one page
// ─────────────────────────────────────────────────────────────

// publishGuard ensures only one publish of a given page runs at a time and
// lets shutdown wait for the ones in flight.
type publishGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks pageID as publishing. It returns false when a publish of
// that page is already running.
func (g *publishGuard) TryLock(pageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[pageID]; ok {
		return false
	}
	g.running[pageID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases pageID. Must be called after TryLock returns true.
func (g *publishGuard) Unlock(pageID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, pageID)
	g.wg.Done()
}

// Running reports whether pageID is being published.
func (g *publishGuard) Running(pageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[pageID]
	return ok
}

// WaitAll blocks until every running publish completes or ctx is cancelled.
func (g *publishGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
