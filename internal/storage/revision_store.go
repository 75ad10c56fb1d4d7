package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// DefaultMaxRevisions is how many revisions are kept per page.
const DefaultMaxRevisions = 40

// RevisionStore implements domain.RevisionStore using SQLite.
type RevisionStore struct {
	db  *DB
	max int
}

// NewRevisionStore keeps at most max revisions per page; max <= 0 means
// DefaultMaxRevisions.
func NewRevisionStore(db *DB, max int) *RevisionStore {
	if max <= 0 {
		max = DefaultMaxRevisions
	}
	return &RevisionStore{db: db, max: max}
}

// PushRevision records a snapshot and prunes the oldest revisions of the
// page beyond the limit.
func (s *RevisionStore) PushRevision(pageID, label, snapshotJSON string) (*domain.Revision, error) {
	rev := &domain.Revision{
		ID:           uuid.New().String(),
		PageID:       pageID,
		Label:        label,
		SnapshotJSON: snapshotJSON,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.conn.Exec(
		`INSERT INTO page_revisions (id, page_id, label, snapshot_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rev.ID, rev.PageID, rev.Label, rev.SnapshotJSON, rev.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}
	if err := s.prune(pageID); err != nil {
		return nil, err
	}
	return rev, nil
}

// ListRevisions returns the page's revisions newest first, without their
// snapshots.
func (s *RevisionStore) ListRevisions(pageID string) ([]domain.Revision, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, page_id, label, created_at FROM page_revisions
		 WHERE page_id = ? ORDER BY created_at DESC, rowid DESC`, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revs []domain.Revision
	for rows.Next() {
		var r domain.Revision
		if err := rows.Scan(&r.ID, &r.PageID, &r.Label, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

func (s *RevisionStore) GetRevision(id string) (*domain.Revision, error) {
	r := &domain.Revision{}
	err := s.db.conn.QueryRow(
		`SELECT id, page_id, label, snapshot_json, created_at FROM page_revisions WHERE id = ?`, id,
	).Scan(&r.ID, &r.PageID, &r.Label, &r.SnapshotJSON, &r.CreatedAt)
	if err != nil {
		return nil, notFound(err, "revision", id)
	}
	return r, nil
}

func (s *RevisionStore) ClearRevisions(pageID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM page_revisions WHERE page_id = ?`, pageID)
	return err
}

func (s *RevisionStore) prune(pageID string) error {
	_, err := s.db.conn.Exec(
		`DELETE FROM page_revisions WHERE page_id = ? AND id NOT IN (
			SELECT id FROM page_revisions WHERE page_id = ?
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, pageID, pageID, s.max,
	)
	if err != nil {
		return fmt.Errorf("prune revisions: %w", err)
	}
	return nil
}
