package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
)

const watchInterval = 2 * time.Second

// pageWatcher polls the database for pages changed by another process
// (an MCP server and an HTTP server sharing one database) and drops the
// stale editing sessions so the next edit starts from the stored tree.
type pageWatcher struct {
	pages    *service.PageService
	list     func() ([]domain.PageSummary, error)
	interval time.Duration
	log      *zap.Logger

	mu   sync.Mutex
	seen map[string]time.Time // page ID -> updated_at

	stopCh chan struct{}
	done   chan struct{}
}

func newPageWatcher(pages *service.PageService, interval time.Duration, log *zap.Logger) *pageWatcher {
	return &pageWatcher{
		pages:    pages,
		list:     pages.ListPages,
		interval: interval,
		log:      log.Named("watcher"),
		seen:     make(map[string]time.Time),
	}
}

// Start begins the polling loop.
func (w *pageWatcher) Start(ctx context.Context) {
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.check(ctx)
	go w.pollLoop(ctx)
}

// Stop terminates the polling loop and waits for it.
func (w *pageWatcher) Stop() {
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	<-w.done
	w.stopCh = nil
}

func (w *pageWatcher) pollLoop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// check compares updated_at fingerprints with the previous poll and
// refreshes the sessions of pages that moved or disappeared.
func (w *pageWatcher) check(ctx context.Context) {
	pages, err := w.list()
	if err != nil {
		w.log.Debug("poll failed", zap.Error(err))
		return
	}

	current := make(map[string]time.Time, len(pages))
	for _, p := range pages {
		current[p.ID] = p.UpdatedAt
	}

	w.mu.Lock()
	var changed []string
	for id, prev := range w.seen {
		if at, ok := current[id]; !ok || !at.Equal(prev) {
			changed = append(changed, id)
		}
	}
	w.seen = current
	w.mu.Unlock()

	for _, id := range changed {
		if _, err := w.pages.Refresh(ctx, id); err != nil {
			w.log.Warn("refresh failed", zap.String("page", id), zap.Error(err))
		}
	}
}
