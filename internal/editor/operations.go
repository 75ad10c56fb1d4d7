package editor

import (
	"fmt"
	"slices"

	"pagebuilder/internal/domain"
)

// AddBlock inserts a copy of b into the section. It goes at at[0] when that
// is within [0, len], otherwise it is appended. An empty block ID is
// stamped; an ID already used in the page is refused.
func (d *Document) AddBlock(sectionID string, b domain.Block, at ...int) (string, error) {
	if b == nil {
		return "", ErrNilBlock
	}
	var id string
	err := d.apply("add block", func(p *domain.Page) error {
		s, err := section(p, sectionID)
		if err != nil {
			return err
		}
		nb := b.Clone()
		if id, err = newAllocator(d.ids, p).claim(nb.BlockID()); err != nil {
			return fmt.Errorf("%w: %s", err, nb.BlockID())
		}
		nb.SetBlockID(id)
		s.Blocks = slices.Insert(s.Blocks, insertIndex(at, len(s.Blocks)), nb)
		return nil
	})
	return id, err
}

// MoveBlock removes the block from its section, then inserts it into the
// destination at targetIndex clamped against the list after removal.
func (d *Document) MoveBlock(fromSectionID, blockID, toSectionID string, targetIndex int) error {
	return d.apply("move block", func(p *domain.Page) error {
		from, err := section(p, fromSectionID)
		if err != nil {
			return err
		}
		to, err := section(p, toSectionID)
		if err != nil {
			return err
		}
		i, err := blockIndex(from, blockID)
		if err != nil {
			return err
		}
		b := from.Blocks[i]
		from.Blocks = slices.Delete(from.Blocks, i, i+1)
		to.Blocks = slices.Insert(to.Blocks, clamp(targetIndex, len(to.Blocks)), b)
		return nil
	})
}

// MoveSection reorders sections. oldIndex must exist; newIndex is clamped
// against the list after removal.
func (d *Document) MoveSection(oldIndex, newIndex int) error {
	return d.apply("move section", func(p *domain.Page) error {
		if oldIndex < 0 || oldIndex >= len(p.Sections) {
			return fmt.Errorf("%w: section %d of %d", ErrIndexOutOfRange, oldIndex, len(p.Sections))
		}
		s := p.Sections[oldIndex]
		p.Sections = slices.Delete(p.Sections, oldIndex, oldIndex+1)
		p.Sections = slices.Insert(p.Sections, clamp(newIndex, len(p.Sections)), s)
		return nil
	})
}

// DuplicateBlock inserts a deep copy with a fresh ID right after the original.
func (d *Document) DuplicateBlock(sectionID, blockID string) (string, error) {
	var id string
	err := d.apply("duplicate block", func(p *domain.Page) error {
		s, err := section(p, sectionID)
		if err != nil {
			return err
		}
		i, err := blockIndex(s, blockID)
		if err != nil {
			return err
		}
		c := s.Blocks[i].Clone()
		id = newAllocator(d.ids, p).next()
		c.SetBlockID(id)
		s.Blocks = slices.Insert(s.Blocks, i+1, c)
		return nil
	})
	return id, err
}

// DuplicateSection inserts a deep copy right after the original, with fresh
// IDs for the section and every block in it.
func (d *Document) DuplicateSection(sectionID string) (string, error) {
	var id string
	err := d.apply("duplicate section", func(p *domain.Page) error {
		i := p.SectionIndex(sectionID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
		}
		alloc := newAllocator(d.ids, p)
		c := p.Sections[i].Clone()
		c.ID = alloc.next()
		for _, b := range c.Blocks {
			b.SetBlockID(alloc.next())
		}
		id = c.ID
		p.Sections = slices.Insert(p.Sections, i+1, c)
		return nil
	})
	return id, err
}

// DeleteBlock removes the block from its section.
func (d *Document) DeleteBlock(sectionID, blockID string) error {
	return d.apply("delete block", func(p *domain.Page) error {
		s, err := section(p, sectionID)
		if err != nil {
			return err
		}
		i, err := blockIndex(s, blockID)
		if err != nil {
			return err
		}
		s.Blocks = slices.Delete(s.Blocks, i, i+1)
		return nil
	})
}

// DeleteSection removes the section and every block in it.
func (d *Document) DeleteSection(sectionID string) error {
	return d.apply("delete section", func(p *domain.Page) error {
		i := p.SectionIndex(sectionID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
		}
		p.Sections = slices.Delete(p.Sections, i, i+1)
		return nil
	})
}

// AddSection inserts a copy of s at at[0] when in range, else appends.
// Empty section and block IDs are stamped; IDs already in use are refused.
func (d *Document) AddSection(s domain.Section, at ...int) (string, error) {
	var id string
	err := d.apply("add section", func(p *domain.Page) error {
		if s.Layout != domain.LayoutFlex && s.Layout != domain.LayoutGrid {
			return fmt.Errorf("%w: %q", ErrInvalidLayout, s.Layout)
		}
		alloc := newAllocator(d.ids, p)
		c := s.Clone()
		var err error
		if c.ID, err = alloc.claim(c.ID); err != nil {
			return fmt.Errorf("%w: %s", err, s.ID)
		}
		for j, b := range c.Blocks {
			if b == nil {
				return fmt.Errorf("%w at %d", ErrNilBlock, j)
			}
			bid, err := alloc.claim(b.BlockID())
			if err != nil {
				return fmt.Errorf("%w: %s", err, b.BlockID())
			}
			b.SetBlockID(bid)
		}
		if c.Blocks == nil {
			c.Blocks = []domain.Block{}
		}
		id = c.ID
		p.Sections = slices.Insert(p.Sections, insertIndex(at, len(p.Sections)), c)
		return nil
	})
	return id, err
}

// UpdateBlock replaces the block with the same ID, keeping its position.
func (d *Document) UpdateBlock(sectionID string, b domain.Block) error {
	if b == nil {
		return ErrNilBlock
	}
	return d.apply("update block", func(p *domain.Page) error {
		s, err := section(p, sectionID)
		if err != nil {
			return err
		}
		i, err := blockIndex(s, b.BlockID())
		if err != nil {
			return err
		}
		s.Blocks[i] = b.Clone()
		return nil
	})
}

// UpdateSection replaces a section's layout, column count and style.
func (d *Document) UpdateSection(sectionID string, layout domain.LayoutKind, columns *int, style domain.SectionStyle) error {
	if layout != domain.LayoutFlex && layout != domain.LayoutGrid {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, layout)
	}
	return d.apply("update section", func(p *domain.Page) error {
		s, err := section(p, sectionID)
		if err != nil {
			return err
		}
		s.Layout = layout
		s.Columns = nil
		if columns != nil {
			s.Columns = domain.IntPtr(*columns)
		}
		s.Style = style
		return nil
	})
}

// RenamePage sets the page name and slug. An empty slug is left empty and
// derived from the name when the page is published.
func (d *Document) RenamePage(name, slug string) error {
	return d.apply("rename page", func(p *domain.Page) error {
		p.Name = name
		p.Slug = ""
		if slug != "" {
			p.Slug = domain.Slugify(slug)
		}
		return nil
	})
}

// Replace swaps the whole tree for a normalized copy of page, as an import
// or template load does. It is one undoable step.
func (d *Document) Replace(page *domain.Page) error {
	if page == nil {
		return ErrNilPage
	}
	c := page.Clone()
	domain.Normalize(c, d.ids)
	return d.apply("replace page", func(p *domain.Page) error {
		*p = *c
		return nil
	})
}

func section(p *domain.Page, id string) (*domain.Section, error) {
	i := p.SectionIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	return &p.Sections[i], nil
}

func blockIndex(s *domain.Section, id string) (int, error) {
	i := s.BlockIndex(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s in section %s", ErrBlockNotFound, id, s.ID)
	}
	return i, nil
}

// insertIndex returns at[0] when it is a valid insertion point, else n.
func insertIndex(at []int, n int) int {
	if len(at) > 0 && at[0] >= 0 && at[0] <= n {
		return at[0]
	}
	return n
}

func clamp(i, n int) int {
	return max(0, min(i, n))
}
