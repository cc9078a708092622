// Package reverse implements spec.md's invert transform (component H):
// producing the changeset that undoes another changeset, by construction
// an involution. Grounded on the teacher's internal/dialect/mysql
// rollback-statement generation — same idea of deriving an inverse
// operation from a captured before/after pair, generalized from SQL DDL
// to the wire row-record model.
package reverse

import (
	"errors"
	"fmt"

	"sqlitediff/internal/core"
)

// ErrPatchSet is returned when asked to reverse a patchset. Patchsets
// discard pre-images, so no general inverse exists (spec.md §4.H).
var ErrPatchSet = errors.New("reverse: patchsets cannot be reversed")

// Reverse returns the changeset that undoes d. Table-section order is
// preserved; record order within each section is reversed, since undoing
// a sequence of operations must undo them in the opposite order they
// were applied.
func Reverse(d *core.DiffSet) (*core.DiffSet, error) {
	if d.Format != core.FormatChangeSet {
		return nil, fmt.Errorf("%w: got %s", ErrPatchSet, d.Format)
	}

	out := &core.DiffSet{Format: core.FormatChangeSet}
	for _, section := range d.Sections {
		reversed := &core.TableSection{Schema: section.Schema}
		for i := len(section.Records) - 1; i >= 0; i-- {
			rec, err := reverseRecord(section.Records[i])
			if err != nil {
				return nil, err
			}
			reversed.Records = append(reversed.Records, rec)
		}
		out.Sections = append(out.Sections, reversed)
	}
	return out, nil
}

func reverseRecord(r *core.Record) (*core.Record, error) {
	switch r.Kind {
	case core.KindInsert:
		return &core.Record{Schema: r.Schema, Kind: core.KindDelete, Values: r.Values}, nil
	case core.KindDelete:
		return &core.Record{Schema: r.Schema, Kind: core.KindInsert, Values: r.Values}, nil
	case core.KindUpdate:
		return &core.Record{Schema: r.Schema, Kind: core.KindUpdate, Old: r.New, New: r.Old}, nil
	default:
		return nil, fmt.Errorf("reverse: record has unknown kind %d", r.Kind)
	}
}
