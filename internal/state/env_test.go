package state

import (
	"context"
	"log"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pagebuilder/internal/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.Log == nil {
		t.Error("Environment has no logger")
	}
}

func TestEnvFromContext_PanicsWithoutEnv(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_StdLogRedirect(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = zap.New(core)

	env.RedirectStdLog()
	log.Print("from std log")
	env.RestoreStdLog()

	if logs.FilterMessage("from std log").Len() != 1 {
		t.Errorf("std log not redirected: %v", logs.All())
	}
}

func TestLocalEnv_OpenApp(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfg.Storage.Path = filepath.Join(dir, "pages.db")
	cfg.Publish.Dir = filepath.Join(dir, "public")

	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = cfg

	a, err := env.OpenApp()
	if err != nil {
		t.Fatal(err)
	}
	again, _ := env.OpenApp()
	if a != again {
		t.Error("OpenApp opened a second app")
	}
	if err := env.CloseApp(); err != nil {
		t.Fatal(err)
	}
	if err := env.CloseApp(); err != nil {
		t.Errorf("second CloseApp: %v", err)
	}
}
