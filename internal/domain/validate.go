package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every structural problem in the page at once: missing
// IDs, unknown layouts, nil blocks, type tags that disagree with the
// variant, negative sizes and IDs shared between nodes.
func (p *Page) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil page", ErrInvalid)
	}
	errs := fieldErrors("", validate.Struct(p))

	owner := make(map[string]string)
	claim := func(id, where string) {
		if id == "" {
			return
		}
		if prev, ok := owner[id]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q at %s and %s", ErrDuplicateID, id, prev, where))
			return
		}
		owner[id] = where
	}

	for i := range p.Sections {
		s := &p.Sections[i]
		claim(s.ID, fmt.Sprintf("sections[%d]", i))
		for j, b := range s.Blocks {
			where := fmt.Sprintf("sections[%d].blocks[%d]", i, j)
			if b == nil {
				errs = multierr.Append(errs, fmt.Errorf("%w at %s", ErrNilBlock, where))
				continue
			}
			if kind := KindOf(b); b.BlockType() != kind {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s has type %q, want %q", ErrInvalid, where, b.BlockType(), kind))
			}
			errs = multierr.Append(errs, fieldErrors(where+".", validate.Struct(b)))
			claim(b.BlockID(), where)
		}
	}
	return errs
}

func fieldErrors(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var out error
	for _, fe := range verrs {
		out = multierr.Append(out, fmt.Errorf("%w: %s%s fails %q", ErrInvalid, prefix, fe.Namespace(), fe.Tag()))
	}
	return out
}
