package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagebuilder/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagebuilder.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ─────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────

func TestLoadConfiguration_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	if cfg.Storage.Path != "/home/tester/.pagebuilder/pages.db" {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Editor.HistoryLimit != 40 || cfg.Storage.MaxRevisions != 40 {
		t.Errorf("limits = %d/%d", cfg.Editor.HistoryLimit, cfg.Storage.MaxRevisions)
	}
	if cfg.Publish.Debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Publish.Debounce)
	}
	if cfg.Publish.Schedule != "" || cfg.Publish.WatchDir != "" {
		t.Error("scheduler should be disabled by default")
	}
	if cfg.HTTP.Listen != "127.0.0.1:8080" {
		t.Errorf("listen = %q", cfg.HTTP.Listen)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" || cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadConfiguration_Overlay(t *testing.T) {
	t.Setenv("PB_DATA", "/srv/pages")
	path := writeConfig(t, `
storage:
  path: ${PB_DATA}/db.sqlite
publish:
  dir: ${PB_DATA}/public
  schedule: "@every 1h"
  watch_dir: /srv/incoming
export:
  minify: true
`)

	cfg, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	if cfg.Storage.Path != "/srv/pages/db.sqlite" || cfg.Publish.Dir != "/srv/pages/public" {
		t.Errorf("paths = %q %q", cfg.Storage.Path, cfg.Publish.Dir)
	}
	if !cfg.Export.Minify || cfg.Publish.Schedule != "@every 1h" {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	// untouched sections keep their defaults
	if cfg.Editor.HistoryLimit != 40 || cfg.HTTP.Listen != "127.0.0.1:8080" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfiguration_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", "storage:\n  pth: x\n", "field pth not found"},
		{"history limit", "editor:\n  history_limit: 0\n", "HistoryLimit"},
		{"bad schedule", "publish:\n  schedule: every tuesday\n", "Schedule"},
		{"bad listen", "http:\n  listen: nowhere\n", "Listen"},
		{"bad level", "logging:\n  console:\n    level: loud\n", "Level"},
		{"version", "version: 2\n", "Version"},
		{"empty dir", "publish:\n  dir: \"\"\n", "Dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfiguration(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := config.LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDump(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	data, err := config.Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := string(data)
	for _, want := range []string{"history_limit: 40", "debounce: 500ms", "listen: 127.0.0.1:8080"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}

	// a dump loads back as a configuration file
	again, err := config.LoadConfiguration(writeConfig(t, out))
	if err != nil {
		t.Fatalf("reload dump: %v", err)
	}
	if again.Publish.Debounce != cfg.Publish.Debounce || again.Storage.Path != cfg.Storage.Path {
		t.Errorf("reloaded = %+v", again)
	}
}

func TestPrepareDefault(t *testing.T) {
	if !strings.Contains(string(config.Prepare()), "history_limit") {
		t.Error("default template missing")
	}
}

// ─────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────

func TestLogger_File(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "logs", "run.log")
	conf := config.LoggingConfig{
		ConsoleLogger: config.LoggerConfig{Level: "none"},
		FileLogger:    config.LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	log.Debug("page published")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "page published") || !strings.Contains(string(data), "pagebuilder") {
		t.Errorf("log file = %q", data)
	}
}

func TestLogger_Silent(t *testing.T) {
	conf := config.LoggingConfig{
		ConsoleLogger: config.LoggerConfig{Level: "none"},
		FileLogger:    config.LoggerConfig{Level: "none"},
	}
	log, err := conf.PrepareTo(os.Stderr, os.Stderr)
	if err != nil {
		t.Fatalf("PrepareTo: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug enabled on silent logger")
	}
}
