package storage

import (
	"database/sql"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

var errNotFound = domain.ErrNotFound

// PageStore implements domain.PageStore using SQLite. Each page is stored as
// its native JSON document with a few denormalized columns for listing.
type PageStore struct {
	db *DB
}

func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

// SavePage inserts or replaces p. The creation time of an existing page is
// kept.
func (s *PageStore) SavePage(p *domain.Page) error {
	doc, err := domain.MarshalPage(p)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.conn.Exec(
		`INSERT INTO pages (id, name, slug, document_json, section_count, block_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			document_json = excluded.document_json,
			section_count = excluded.section_count,
			block_count = excluded.block_count,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Slug, string(doc), len(p.Sections), p.BlockCount(), now, now,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("save page %s: slug %q: %w", p.ID, p.Slug, domain.ErrSlugTaken)
	}
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	return nil
}

func (s *PageStore) GetPage(id string) (*domain.Page, error) {
	return s.getPage(`SELECT document_json FROM pages WHERE id = ?`, id)
}

func (s *PageStore) GetPageBySlug(slug string) (*domain.Page, error) {
	if slug == "" {
		return nil, fmt.Errorf("page with empty slug: %w", errNotFound)
	}
	return s.getPage(`SELECT document_json FROM pages WHERE slug = ?`, slug)
}

func (s *PageStore) getPage(query, key string) (*domain.Page, error) {
	var doc string
	if err := s.db.conn.QueryRow(query, key).Scan(&doc); err != nil {
		return nil, notFound(err, "page", key)
	}
	p, err := domain.ParsePage([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decode page %s: %w", key, err)
	}
	return p, nil
}

func (s *PageStore) ListPages() ([]domain.PageSummary, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, slug, section_count, block_count, created_at, updated_at, published_at
		 FROM pages ORDER BY updated_at DESC, name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.PageSummary
	for rows.Next() {
		var (
			ps        domain.PageSummary
			published sql.NullTime
		)
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Slug, &ps.SectionCount, &ps.BlockCount,
			&ps.CreatedAt, &ps.UpdatedAt, &published); err != nil {
			return nil, err
		}
		if published.Valid {
			t := published.Time
			ps.PublishedAt = &t
		}
		pages = append(pages, ps)
	}
	return pages, rows.Err()
}

// DeletePage removes the page and its revisions.
func (s *PageStore) DeletePage(id string) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM page_revisions WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("delete revisions: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("page %s: %w", id, errNotFound)
	}
	return tx.Commit()
}

func (s *PageStore) MarkPublished(id string, at time.Time) error {
	res, err := s.db.conn.Exec(`UPDATE pages SET published_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("page %s: %w", id, errNotFound)
	}
	return nil
}
