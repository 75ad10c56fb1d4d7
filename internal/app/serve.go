package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"pagebuilder/internal/httpapi"
	mcpserver "pagebuilder/internal/mcp"
	"pagebuilder/internal/service"
)

// StartBackground starts the configured scheduler and the external-change
// watcher. Both stop when ctx is done or the app is closed.
func (a *App) StartBackground(ctx context.Context) error {
	w := newPageWatcher(a.Pages, watchInterval, a.log)
	w.Start(ctx)
	a.onClose(w.Stop)

	p := a.cfg.Publish
	if p.Schedule == "" && p.WatchDir == "" {
		return nil
	}
	sched := service.NewScheduler(a.Pages, service.SchedulerOptions{
		Schedule: p.Schedule,
		WatchDir: p.WatchDir,
		Debounce: p.Debounce,
		Publish:  p.PublishImports,
		Log:      a.log,
	})
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.onClose(sched.Stop)
	a.log.Info("Scheduler started", zap.String("schedule", p.Schedule), zap.String("watch", p.WatchDir))
	return nil
}

// ServeMCP runs the MCP server on the given streams until ctx is done or
// the client disconnects.
func (a *App) ServeMCP(ctx context.Context, in io.Reader, out io.Writer, version string) error {
	if err := a.StartBackground(ctx); err != nil {
		return err
	}
	srv := mcpserver.New(mcpserver.Deps{Pages: a.Pages, Log: a.log, Version: version})
	a.Subscribe(srv)
	return srv.ServeStdio(ctx, in, out)
}

// ServeHTTP runs the HTTP API and published pages until ctx is done.
func (a *App) ServeHTTP(ctx context.Context) error {
	if err := a.StartBackground(ctx); err != nil {
		return err
	}
	h := a.cfg.HTTP
	return httpapi.New(a.Pages, a.log).ListenAndServe(ctx, h.Listen, h.ReadTimeout, h.WriteTimeout)
}
