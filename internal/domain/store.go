package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrSlugTaken = errors.New("slug already in use")
)

// PageSummary is the listing view of a stored page.
type PageSummary struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	SectionCount int        `json:"sectionCount"`
	BlockCount   int        `json:"blockCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

// Revision is a durable checkpoint of a page (save, import, publish).
type Revision struct {
	ID           string    `json:"id"`
	PageID       string    `json:"pageId"`
	Label        string    `json:"label"`
	SnapshotJSON string    `json:"snapshotJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PageStore interface {
	SavePage(p *Page) error
	GetPage(id string) (*Page, error)
	GetPageBySlug(slug string) (*Page, error)
	ListPages() ([]PageSummary, error)
	DeletePage(id string) error
	MarkPublished(id string, at time.Time) error
}

type RevisionStore interface {
	PushRevision(pageID, label, snapshotJSON string) (*Revision, error)
	ListRevisions(pageID string) ([]Revision, error)
	GetRevision(id string) (*Revision, error)
	ClearRevisions(pageID string) error
}
