// Package editor owns one page per editing session and applies ordered
// mutations to it with linear undo/redo.
//
// A Document is not safe for concurrent use. Callers serialize mutations;
// Snapshot returns a deep copy that can be rendered while editing goes on.
package editor

import (
	"errors"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
)

const DefaultHistoryLimit = 40

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrBlockNotFound   = errors.New("block not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrNilPage         = errors.New("nil page")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")

	ErrDuplicateID = domain.ErrDuplicateID
	ErrNilBlock    = domain.ErrNilBlock
)

// entry is one history step: the tree as it was before a mutation.
type entry struct {
	label string
	page  *domain.Page
}

// History lists undo and redo labels, most recent last.
type History struct {
	Undo []string `json:"undo"`
	Redo []string `json:"redo"`
}

type Option func(*Document)

// WithHistoryLimit bounds the undo stack. Values below 1 keep the default.
func WithHistoryLimit(n int) Option {
	return func(d *Document) {
		if n > 0 {
			d.limit = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Document) {
		if log != nil {
			d.log = log
		}
	}
}

// Document is one editing session over one page.
type Document struct {
	page  *domain.Page
	ids   domain.IDGenerator
	undo  []entry
	redo  []entry
	limit int
	log   *zap.Logger
	rev   uint64
}

// New starts a session on a copy of page. A nil page starts from a fresh
// default page.
func New(page *domain.Page, ids domain.IDGenerator, opts ...Option) *Document {
	d := &Document{
		ids:   ids,
		limit: DefaultHistoryLimit,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if page == nil {
		d.page = domain.NewPage(ids, "Untitled")
	} else {
		d.page = page.Clone()
		domain.Normalize(d.page, ids)
	}
	return d
}

// Snapshot returns a deep copy of the current tree.
func (d *Document) Snapshot() *domain.Page {
	return d.page.Clone()
}

func (d *Document) PageID() string { return d.page.ID }

// Version counts the changes applied to the tree, undo and redo included.
func (d *Document) Version() uint64 { return d.rev }

// History reports the labels of the undo and redo stacks.
func (d *Document) History() History {
	h := History{
		Undo: make([]string, len(d.undo)),
		Redo: make([]string, len(d.redo)),
	}
	for i, e := range d.undo {
		h.Undo[i] = e.label
	}
	// redo is a stack too; report it in the order Redo would replay it
	for i, e := range d.redo {
		h.Redo[len(d.redo)-1-i] = e.label
	}
	return h
}

func (d *Document) CanUndo() bool { return len(d.undo) > 0 }
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

// Undo restores the tree as it was before the last mutation.
func (d *Document) Undo() error {
	if len(d.undo) == 0 {
		return ErrNothingToUndo
	}
	e := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, entry{label: e.label, page: d.page})
	d.page = e.page
	d.rev++
	d.log.Debug("undo", zap.String("op", e.label), zap.String("page", d.page.ID))
	return nil
}

// Redo reapplies the last undone mutation.
func (d *Document) Redo() error {
	if len(d.redo) == 0 {
		return ErrNothingToRedo
	}
	e := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.pushUndo(entry{label: e.label, page: d.page})
	d.page = e.page
	d.rev++
	d.log.Debug("redo", zap.String("op", e.label), zap.String("page", d.page.ID))
	return nil
}

// apply runs fn against a copy of the tree. Only when fn succeeds does the
// copy become current and the previous tree land on the undo stack.
func (d *Document) apply(label string, fn func(p *domain.Page) error) error {
	next := d.page.Clone()
	if err := fn(next); err != nil {
		d.log.Debug("rejected", zap.String("op", label), zap.Error(err))
		return err
	}
	d.pushUndo(entry{label: label, page: d.page})
	d.redo = nil
	d.page = next
	d.rev++
	d.log.Debug("applied", zap.String("op", label), zap.String("page", next.ID))
	return nil
}

func (d *Document) pushUndo(e entry) {
	d.undo = append(d.undo, e)
	if over := len(d.undo) - d.limit; over > 0 {
		d.undo = append(d.undo[:0:0], d.undo[over:]...)
	}
}

// allocator hands out IDs not yet used in a page.
type allocator struct {
	ids   domain.IDGenerator
	taken map[string]struct{}
}

func newAllocator(ids domain.IDGenerator, p *domain.Page) *allocator {
	return &allocator{ids: ids, taken: p.IDs()}
}

func (a *allocator) next() string {
	for {
		id := a.ids.NewID()
		if _, used := a.taken[id]; !used {
			a.taken[id] = struct{}{}
			return id
		}
	}
}

// claim reserves id, stamping a fresh one when it is empty.
func (a *allocator) claim(id string) (string, error) {
	if id == "" {
		return a.next(), nil
	}
	if _, used := a.taken[id]; used {
		return "", ErrDuplicateID
	}
	a.taken[id] = struct{}{}
	return id, nil
}
