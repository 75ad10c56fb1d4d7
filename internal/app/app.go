// Package app wires storage, services and the outer surfaces (MCP, HTTP)
// together from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// App owns the open database and the services built on it.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *storage.DB
	events *relay

	Pages *service.PageService

	mu         sync.Mutex
	background []func()
}

// New opens storage and builds the page service.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := storage.New(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &App{
		cfg:    cfg,
		log:    log,
		db:     db,
		events: &relay{},
	}
	a.Pages = service.NewPageService(
		storage.NewPageStore(db),
		storage.NewRevisionStore(db, cfg.Storage.MaxRevisions),
		service.Emitters{service.LogEmitter(log), a.events},
		service.PageOptions{
			PublishDir:   cfg.Publish.Dir,
			HistoryLimit: cfg.Editor.HistoryLimit,
			Minify:       cfg.Export.Minify,
			IDs:          domain.UUIDGenerator{},
			Log:          log,
		},
	)
	log.Debug("Storage opened", zap.String("path", cfg.Storage.Path))
	return a, nil
}

// Subscribe adds a receiver for page events.
func (a *App) Subscribe(e service.EventEmitter) {
	a.events.attach(e)
}

// Close stops background work, lets running publishes finish and closes
// the database.
func (a *App) Close() (err error) {
	a.mu.Lock()
	stops := a.background
	a.background = nil
	a.mu.Unlock()
	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a.Pages.WaitPublishing(ctx)
	if ctx.Err() != nil {
		err = multierr.Append(err, fmt.Errorf("publishes still running at shutdown: %w", ctx.Err()))
	}

	if e := a.db.Close(); e != nil {
		err = multierr.Append(err, fmt.Errorf("close storage: %w", e))
	}
	return err
}

func (a *App) onClose(stop func()) {
	a.mu.Lock()
	a.background = append(a.background, stop)
	a.mu.Unlock()
}
