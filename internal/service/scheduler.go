package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pagebuilder/internal/schema"
)

const DefaultDebounce = 500 * time.Millisecond

// SchedulerOptions configures background publishing. An empty Schedule
// disables the cron job; an empty WatchDir disables the watch folder.
type SchedulerOptions struct {
	// Schedule is a standard five-field cron expression or a descriptor
	// such as "@hourly".
	Schedule string
	WatchDir string
	Debounce time.Duration
	// Publish publishes pages imported from the watch folder.
	Publish bool
	Log     *zap.Logger
}

// ─────────────────────────────────────────────────────────────
// Scheduler: periodic republish and watch-folder import
// ─────────────────────────────────────────────────────────────

type Scheduler struct {
	pages *PageService
	opts  SchedulerOptions
	log   *zap.Logger

	mu       sync.Mutex
	cron     *cron.Cron
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	loop     sync.WaitGroup
	imports  sync.WaitGroup    // debounced imports, scheduled or running
	importMu sync.Mutex        // one file import at a time
	imported map[string]string // absolute file path -> page ID
}

func NewScheduler(pages *PageService, opts SchedulerOptions) *Scheduler {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Scheduler{
		pages:    pages,
		opts:     opts,
		log:      opts.Log.Named("scheduler"),
		imported: make(map[string]string),
	}
}

// Start tears down anything running and starts the configured cron job and
// watcher. The context bounds the work they trigger.
func (s *Scheduler) Start(ctx context.Context) error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.opts.Schedule != "" {
		logger := cron.PrintfLogger(zap.NewStdLog(s.log))
		c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
		_, err := c.AddFunc(s.opts.Schedule, func() {
			res, err := s.pages.PublishAll(runCtx)
			if err != nil {
				s.log.Error("scheduled publish", zap.Error(err))
			}
			s.log.Info("scheduled publish done", zap.Int("pages", len(res)))
		})
		if err != nil {
			cancel()
			return fmt.Errorf("invalid schedule %q: %w", s.opts.Schedule, err)
		}
		c.Start()
		s.cron = c
		s.log.Info("republish scheduled", zap.String("schedule", s.opts.Schedule))
	}

	if s.opts.WatchDir == "" {
		return nil
	}
	dir, err := filepath.Abs(s.opts.WatchDir)
	if err != nil {
		return s.fail(fmt.Errorf("watch dir: %w", err))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return s.fail(fmt.Errorf("create watch dir: %w", err))
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return s.fail(fmt.Errorf("create watcher: %w", err))
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return s.fail(fmt.Errorf("watch %q: %w", dir, err))
	}
	s.watcher = watcher

	s.loop.Add(1)
	go s.watch(runCtx, watcher)
	s.log.Info("watching for imports", zap.String("dir", dir))
	return nil
}

// fail undoes a half-done Start. s.mu is held.
func (s *Scheduler) fail(err error) error {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
	s.cancel()
	s.cancel = nil
	return err
}

func (s *Scheduler) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer s.loop.Done()
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			if t.Stop() {
				s.imports.Done()
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isImportFile(event.Name) {
				continue
			}
			path, _ := filepath.Abs(event.Name)
			if t, exists := timers[path]; exists && t.Stop() {
				s.imports.Done()
			}
			s.imports.Add(1)
			timers[path] = time.AfterFunc(s.opts.Debounce, func() {
				defer s.imports.Done()
				if ctx.Err() != nil {
					return
				}
				if _, err := s.ImportFile(ctx, path); err != nil {
					s.log.Warn("watch import failed", zap.String("file", path), zap.Error(err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func isImportFile(name string) bool {
	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), ".json")
}

// ImportFile imports a JSON file. A file imported before replaces the page
// it created then. With Publish set, the page is published afterwards.
// Imports run one at a time.
func (s *Scheduler) ImportFile(ctx context.Context, path string) (*schema.Result, error) {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	target := s.imported[path]
	s.mu.Unlock()
	if target != "" {
		if _, err := s.pages.Snapshot(target); err != nil {
			target = ""
		}
	}

	res, err := s.pages.Import(ctx, data, target)
	if err != nil {
		return res, err
	}
	s.mu.Lock()
	s.imported[path] = res.Page.ID
	s.mu.Unlock()
	s.log.Info("imported", zap.String("file", path), zap.String("page", res.Page.ID), zap.String("schema", string(res.SchemaType)))

	if s.opts.Publish {
		if _, err := s.pages.Publish(ctx, res.Page.ID); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Stop stops the cron job and the watcher and waits for the watch loop and
// any import it started. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	var stopped context.Context
	if s.cron != nil {
		stopped = s.cron.Stop()
		s.cron = nil
	}
	s.mu.Unlock()

	s.loop.Wait()
	s.imports.Wait()
	if stopped != nil {
		<-stopped.Done()
	}
}
