package domain

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for sections, blocks and pages.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

// SequenceGenerator produces prefix1, prefix2, ... and is meant for tests
// and reproducible conversions.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// Normalize repairs an imported page in place: missing page, section and
// block IDs are stamped, later duplicates are re-stamped, block type tags
// are aligned with their variant, unknown layouts fall back to flex and nil
// blocks are dropped.
func Normalize(p *Page, ids IDGenerator) {
	if p == nil {
		return
	}
	if p.ID == "" {
		p.ID = ids.NewID()
	}

	taken := p.IDs()
	seen := make(map[string]struct{}, len(taken))
	claim := func(id string) string {
		if _, dup := seen[id]; id != "" && !dup {
			seen[id] = struct{}{}
			return id
		}
		for {
			n := ids.NewID()
			_, inUse := taken[n]
			_, dup := seen[n]
			if !inUse && !dup {
				seen[n] = struct{}{}
				return n
			}
		}
	}

	for i := range p.Sections {
		s := &p.Sections[i]
		s.ID = claim(s.ID)
		if s.Layout != LayoutGrid {
			s.Layout = LayoutFlex
		}
		if s.Blocks == nil {
			continue
		}
		kept := make([]Block, 0, len(s.Blocks))
		for _, b := range s.Blocks {
			if b == nil {
				continue
			}
			b.base().Type = KindOf(b)
			b.SetBlockID(claim(b.BlockID()))
			kept = append(kept, b)
		}
		s.Blocks = kept
	}
}
