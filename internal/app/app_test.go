package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"pagebuilder/internal/config"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"
)

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage.Path = filepath.Join(dir, "data", "pages.db")
	cfg.Publish.Dir = filepath.Join(dir, "public")
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNew_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, testConfig(t, dir))

	if _, err := a.Pages.CreatePage(context.Background(), "Home"); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "pages.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}

	// pages survive a reopen
	b := newTestApp(t, testConfig(t, dir))
	defer b.Close()
	pages, err := b.Pages.ListPages()
	if err != nil || len(pages) != 1 || pages[0].Slug != "home" {
		t.Errorf("pages after reopen = %+v, %v", pages, err)
	}
}

func TestSubscribe_ReceivesEvents(t *testing.T) {
	a := newTestApp(t, testConfig(t, t.TempDir()))
	defer a.Close()

	m := &service.MockEmitter{}
	a.Subscribe(m)
	p, _ := a.Pages.CreatePage(context.Background(), "Home")
	if _, err := a.Pages.Publish(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.Named(service.EventPageChanged)) != 1 || len(m.Named(service.EventPagePublished)) != 1 {
		t.Errorf("events = %+v", m.Events)
	}
}

func TestStartBackground_BadSchedule(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Publish.Schedule = "not a schedule"
	a := newTestApp(t, cfg)
	defer a.Close()

	if err := a.StartBackground(context.Background()); err == nil {
		t.Fatal("expected scheduler error")
	}
}

func TestStartBackground_StopsOnClose(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Publish.Schedule = "@every 1h"
	cfg.Publish.WatchDir = filepath.Join(t.TempDir(), "incoming")
	a := newTestApp(t, cfg)

	if err := a.StartBackground(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.Publish.WatchDir); err != nil {
		t.Errorf("watch dir not created: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// pageWatcher
// ─────────────────────────────────────────────────────────────

func TestPageWatcher_DropsStaleSession(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	mcpSide := newTestApp(t, testConfig(t, dir))
	defer mcpSide.Close()
	httpSide := newTestApp(t, testConfig(t, dir))
	defer httpSide.Close()

	p, err := mcpSide.Pages.CreatePage(ctx, "Shared")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mcpSide.Pages.Open(p.ID); err != nil {
		t.Fatal(err)
	}

	w := newPageWatcher(mcpSide.Pages, watchInterval, zaptest.NewLogger(t))
	w.check(ctx)

	if _, err := httpSide.Pages.Edit(ctx, p.ID, "rename", func(d *editor.Document) error {
		return d.RenamePage("Changed", "shared")
	}); err != nil {
		t.Fatal(err)
	}
	w.check(ctx)

	got, err := mcpSide.Pages.Snapshot(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Changed" {
		t.Errorf("stale session kept: name = %q", got.Name)
	}
}

func TestPageWatcher_StartStop(t *testing.T) {
	a := newTestApp(t, testConfig(t, t.TempDir()))
	defer a.Close()

	w := newPageWatcher(a.Pages, watchInterval, zaptest.NewLogger(t))
	w.Start(context.Background())
	w.Stop()
	w.Stop()
}
