package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/export"
	"pagebuilder/internal/schema"
)

var (
	ErrPublishInProgress = errors.New("publish already in progress")
	ErrPublishDirUnset   = errors.New("publish directory not configured")
)

// ─────────────────────────────────────────────────────────────
// Page Service: editing sessions, persistence and publishing
// ─────────────────────────────────────────────────────────────

// PageOptions tunes a PageService. Zero values are usable.
type PageOptions struct {
	PublishDir   string
	HistoryLimit int
	Minify       bool
	IDs          domain.IDGenerator
	Log          *zap.Logger
	Now          func() time.Time
}

// PageEvent is the payload of page:changed, page:published and
// page:deleted.
type PageEvent struct {
	PageID  string `json:"pageId"`
	Label   string `json:"label,omitempty"`
	Version uint64 `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ImportEvent is the payload of page:imported.
type ImportEvent struct {
	PageID     string      `json:"pageId"`
	SchemaType schema.Type `json:"schemaType"`
}

// PublishResult describes a written page.
type PublishResult struct {
	PageID      string    `json:"pageId"`
	Slug        string    `json:"slug"`
	Path        string    `json:"path"`
	Bytes       int       `json:"bytes"`
	PublishedAt time.Time `json:"publishedAt"`
}

// session is one open editor.Document. mu serializes its mutations.
type session struct {
	mu    sync.Mutex
	doc   *editor.Document
	saved *domain.Page
}

// PageService owns the editing sessions of stored pages. Mutations of one
// page are serialized; exports render from snapshots outside the lock.
type PageService struct {
	pages     domain.PageStore
	revisions domain.RevisionStore
	emitter   EventEmitter
	opts      PageOptions
	log       *zap.Logger
	renderer  *export.Renderer
	preview   *export.Renderer

	mu         sync.Mutex
	sessions   map[string]*session
	publishing publishGuard
}

// NewPageService creates a PageService.
func NewPageService(pages domain.PageStore, revisions domain.RevisionStore, emitter EventEmitter, opts PageOptions) *PageService {
	if opts.IDs == nil {
		opts.IDs = domain.UUIDGenerator{}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = editor.DefaultHistoryLimit
	}
	if emitter == nil {
		emitter = Emitters(nil)
	}
	log := opts.Log.Named("pages")
	return &PageService{
		pages:     pages,
		revisions: revisions,
		emitter:   emitter,
		opts:      opts,
		log:       log,
		renderer:  export.New(export.Options{Minify: opts.Minify, Now: opts.Now, Log: log}),
		preview:   export.New(export.Options{Annotate: true, Now: opts.Now, Log: log}),
		sessions:  make(map[string]*session),
	}
}

// ── Page CRUD ──────────────────────────────────────────────

// CreatePage stores a new default page and records its first revision.
func (s *PageService) CreatePage(ctx context.Context, name string) (*domain.Page, error) {
	if name == "" {
		name = "Untitled"
	}
	p := domain.NewPage(s.opts.IDs, name)
	sl, err := s.uniqueSlug(name, p.ID)
	if err != nil {
		return nil, err
	}
	p.Slug = sl
	if err := s.pages.SavePage(p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := s.checkpoint(p, "create"); err != nil {
		return nil, err
	}
	s.log.Info("page created", zap.String("page", p.ID), zap.String("slug", p.Slug))
	s.emitter.Emit(ctx, EventPageChanged, PageEvent{PageID: p.ID, Label: "create"})
	return p, nil
}

func (s *PageService) ListPages() ([]domain.PageSummary, error) {
	return s.pages.ListPages()
}

// DeletePage removes a page, its revisions, its session and its published
// file. A page being published cannot be deleted.
func (s *PageService) DeletePage(ctx context.Context, pageID string) error {
	if s.publishing.Running(pageID) {
		return fmt.Errorf("delete page %s: %w", pageID, ErrPublishInProgress)
	}
	p, err := s.pages.GetPage(pageID)
	if err != nil {
		return err
	}
	s.Close(pageID)
	if err := s.pages.DeletePage(pageID); err != nil {
		return err
	}
	s.unpublish(p.Slug)
	s.log.Info("page deleted", zap.String("page", pageID))
	s.emitter.Emit(ctx, EventPageDeleted, PageEvent{PageID: pageID})
	return nil
}

// ── Sessions ───────────────────────────────────────────────

// Open loads a page into an editing session, if it is not open already,
// and returns a snapshot of it.
func (s *PageService) Open(pageID string) (*domain.Page, error) {
	sess, err := s.session(pageID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.doc.Snapshot(), nil
}

// Close discards the editing session of pageID and its undo history.
func (s *PageService) Close(pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, pageID)
}

func (s *PageService) session(pageID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[pageID]; ok {
		return sess, nil
	}
	p, err := s.pages.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	sess := &session{doc: s.newDocument(p), saved: p}
	s.sessions[pageID] = sess
	return sess, nil
}

// Refresh drops the open session of pageID when the stored page no longer
// matches what this service last saved, as happens when another process
// edits the same database. It reports whether the session was dropped.
func (s *PageService) Refresh(ctx context.Context, pageID string) (bool, error) {
	s.mu.Lock()
	sess, ok := s.sessions[pageID]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	stored, err := s.pages.GetPage(pageID)
	if errors.Is(err, domain.ErrNotFound) {
		s.Close(pageID)
		return true, nil
	}
	if err != nil {
		return false, err
	}

	sess.mu.Lock()
	saved, _ := domain.MarshalPage(sess.saved)
	sess.mu.Unlock()
	current, err := domain.MarshalPage(stored)
	if err != nil {
		return false, err
	}
	if bytes.Equal(saved, current) {
		return false, nil
	}

	s.Close(pageID)
	s.log.Info("session dropped, page changed externally", zap.String("page", pageID))
	s.emitter.Emit(ctx, EventPageChanged, PageEvent{PageID: pageID, Label: "external"})
	return true, nil
}

func (s *PageService) newDocument(p *domain.Page) *editor.Document {
	return editor.New(p, s.opts.IDs,
		editor.WithHistoryLimit(s.opts.HistoryLimit),
		editor.WithLogger(s.log),
	)
}

// Edit runs fn against the page's document under its lock. When fn changed
// the tree, the result is saved and page:changed is emitted, even if fn
// went on to fail; fn's error is returned as is. If saving fails the
// session falls back to the last saved page.
func (s *PageService) Edit(ctx context.Context, pageID, label string, fn func(d *editor.Document) error) (*domain.Page, error) {
	sess, err := s.session(pageID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	before := sess.doc.Version()
	fnErr := fn(sess.doc)
	if sess.doc.Version() == before {
		if fnErr != nil {
			return nil, fnErr
		}
		return sess.doc.Snapshot(), nil
	}

	p := sess.doc.Snapshot()
	if err := s.pages.SavePage(p); err != nil {
		sess.doc = s.newDocument(sess.saved)
		s.log.Warn("save failed, session reset", zap.String("page", pageID), zap.String("op", label), zap.Error(err))
		return nil, fmt.Errorf("save page: %w", err)
	}
	if prev := sess.saved.Slug; prev != "" && prev != p.Slug {
		// the old address must not keep serving a renamed page
		s.unpublish(prev)
	}
	sess.saved = p.Clone()
	s.log.Debug("page edited", zap.String("page", pageID), zap.String("op", label), zap.Uint64("version", sess.doc.Version()))
	s.emitter.Emit(ctx, EventPageChanged, PageEvent{PageID: pageID, Label: label, Version: sess.doc.Version()})
	return p, fnErr
}

// Snapshot returns the current tree: the open session's when there is one,
// the stored page otherwise.
func (s *PageService) Snapshot(pageID string) (*domain.Page, error) {
	s.mu.Lock()
	sess, ok := s.sessions[pageID]
	s.mu.Unlock()
	if !ok {
		return s.pages.GetPage(pageID)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.doc.Snapshot(), nil
}

// History reports the undo/redo labels of an open page.
func (s *PageService) History(pageID string) (editor.History, error) {
	sess, err := s.session(pageID)
	if err != nil {
		return editor.History{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.doc.History(), nil
}

func (s *PageService) Undo(ctx context.Context, pageID string) (*domain.Page, error) {
	return s.Edit(ctx, pageID, "undo", func(d *editor.Document) error { return d.Undo() })
}

func (s *PageService) Redo(ctx context.Context, pageID string) (*domain.Page, error) {
	return s.Edit(ctx, pageID, "redo", func(d *editor.Document) error { return d.Redo() })
}

// ── Import / export ────────────────────────────────────────

// Import converts data into a page. With an empty targetPageID the result
// is stored as a new page; otherwise it replaces the target's tree as one
// undoable step, keeping the target's ID and slug. A failed conversion
// leaves every stored page untouched.
func (s *PageService) Import(ctx context.Context, data []byte, targetPageID string) (*schema.Result, error) {
	res, err := schema.AutoConvert(data, s.opts.IDs)
	if err != nil {
		s.log.Info("import rejected", zap.String("schema", string(res.SchemaType)), zap.Error(err))
		return res, err
	}
	p := res.Page

	if targetPageID == "" {
		if _, err := s.pages.GetPage(p.ID); err == nil {
			p.ID = s.opts.IDs.NewID()
		}
		if p.Slug, err = s.uniqueSlug(p.Slug, p.ID); err != nil {
			res.Page = nil
			return res, err
		}
		if err := s.pages.SavePage(p); err != nil {
			res.Page = nil
			return res, fmt.Errorf("import: %w", err)
		}
	} else {
		p, err = s.Edit(ctx, targetPageID, "import", func(d *editor.Document) error {
			cur := d.Snapshot()
			p.ID, p.Slug = cur.ID, cur.Slug
			return d.Replace(p)
		})
		if err != nil {
			res.Page = nil
			return res, fmt.Errorf("import: %w", err)
		}
	}
	res.Page = p

	if err := s.checkpoint(p, "import"); err != nil {
		return res, err
	}
	s.log.Info("page imported", zap.String("page", p.ID), zap.String("schema", string(res.SchemaType)))
	s.emitter.Emit(ctx, EventPageImported, ImportEvent{PageID: p.ID, SchemaType: res.SchemaType})
	return res, nil
}

// Export renders the current tree as a standalone document.
func (s *PageService) Export(pageID string) (string, error) {
	p, err := s.Snapshot(pageID)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(p), nil
}

// Preview renders the current tree with section and block IDs annotated.
func (s *PageService) Preview(pageID string) (string, error) {
	p, err := s.Snapshot(pageID)
	if err != nil {
		return "", err
	}
	return s.preview.Render(p), nil
}

// ── Publishing ─────────────────────────────────────────────

// Publish writes <slug>.html into the publish directory and records a
// revision. A page without a slug gets one derived from its name first.
func (s *PageService) Publish(ctx context.Context, pageID string) (*PublishResult, error) {
	if s.opts.PublishDir == "" {
		return nil, ErrPublishDirUnset
	}
	if !s.publishing.TryLock(pageID) {
		return nil, fmt.Errorf("publish %s: %w", pageID, ErrPublishInProgress)
	}
	defer s.publishing.Unlock(pageID)

	p, err := s.Snapshot(pageID)
	if err != nil {
		return nil, err
	}
	if p.Slug == "" {
		sl, err := s.uniqueSlug(p.Name, p.ID)
		if err != nil {
			return nil, err
		}
		if p, err = s.Edit(ctx, pageID, "set slug", func(d *editor.Document) error {
			return d.RenamePage(p.Name, sl)
		}); err != nil {
			return nil, err
		}
	}

	html := s.renderer.Render(p)
	path := filepath.Join(s.opts.PublishDir, p.Slug+".html")
	if err := writeFileAtomic(path, []byte(html)); err != nil {
		return nil, fmt.Errorf("publish %s: %w", pageID, err)
	}
	at := s.opts.Now().UTC()
	if err := s.pages.MarkPublished(pageID, at); err != nil {
		return nil, err
	}
	if err := s.checkpoint(p, "publish"); err != nil {
		return nil, err
	}

	res := &PublishResult{PageID: pageID, Slug: p.Slug, Path: path, Bytes: len(html), PublishedAt: at}
	s.log.Info("page published", zap.String("page", pageID), zap.String("path", path), zap.Int("bytes", len(html)))
	s.emitter.Emit(ctx, EventPagePublished, PageEvent{PageID: pageID, Path: path})
	return res, nil
}

// PublishAll republishes every stored page. Pages already being published
// are skipped; other failures are collected.
func (s *PageService) PublishAll(ctx context.Context) ([]PublishResult, error) {
	pages, err := s.pages.ListPages()
	if err != nil {
		return nil, err
	}
	var (
		out  []PublishResult
		errs error
	)
	for _, ps := range pages {
		if err := ctx.Err(); err != nil {
			return out, multierr.Append(errs, err)
		}
		res, err := s.Publish(ctx, ps.ID)
		switch {
		case errors.Is(err, ErrPublishInProgress):
			continue
		case err != nil:
			errs = multierr.Append(errs, err)
		default:
			out = append(out, *res)
		}
	}
	return out, errs
}

// PublishedHTML returns the published document for slug.
func (s *PageService) PublishedHTML(name string) ([]byte, error) {
	if s.opts.PublishDir == "" || !slug.IsSlug(name) {
		return nil, fmt.Errorf("published page %q: %w", name, domain.ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(s.opts.PublishDir, name+".html"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("published page %q: %w", name, domain.ErrNotFound)
	}
	return data, err
}

// WaitPublishing blocks until running publishes finish or ctx is done.
func (s *PageService) WaitPublishing(ctx context.Context) {
	s.publishing.WaitAll(ctx)
}

// ── Revisions ──────────────────────────────────────────────

func (s *PageService) Revisions(pageID string) ([]domain.Revision, error) {
	return s.revisions.ListRevisions(pageID)
}

// RestoreRevision replaces the page's tree with the revision's snapshot as
// one undoable step.
func (s *PageService) RestoreRevision(ctx context.Context, revisionID string) (*domain.Page, error) {
	rev, err := s.revisions.GetRevision(revisionID)
	if err != nil {
		return nil, err
	}
	p, err := domain.ParsePage([]byte(rev.SnapshotJSON))
	if err != nil {
		return nil, fmt.Errorf("decode revision %s: %w", revisionID, err)
	}
	p.ID = rev.PageID
	return s.Edit(ctx, rev.PageID, "restore "+rev.Label, func(d *editor.Document) error {
		return d.Replace(p)
	})
}

func (s *PageService) checkpoint(p *domain.Page, label string) error {
	doc, err := domain.MarshalPage(p)
	if err != nil {
		return fmt.Errorf("encode revision: %w", err)
	}
	if _, err := s.revisions.PushRevision(p.ID, label, string(doc)); err != nil {
		return fmt.Errorf("record %s revision: %w", label, err)
	}
	return nil
}

// unpublish removes the published file of a slug, if any.
func (s *PageService) unpublish(name string) {
	if s.opts.PublishDir == "" || name == "" {
		return
	}
	path := filepath.Join(s.opts.PublishDir, name+".html")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("remove published file", zap.String("path", path), zap.Error(err))
	}
}

// uniqueSlug derives a slug from base that no other page uses, appending
// -2, -3, ... as needed.
func (s *PageService) uniqueSlug(base, pageID string) (string, error) {
	base = domain.Slugify(base)
	for i := 1; i <= 100; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		other, err := s.pages.GetPageBySlug(candidate)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && other.ID == pageID) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("slug %q: %w", base, domain.ErrSlugTaken)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create publish dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".publish-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
