package core

// Format distinguishes a full-fidelity changeset from the compact
// patchset variant. The first marker byte on the wire fixes this for an
// entire parsed stream — see internal/parser.
type Format int

const (
	FormatChangeSet Format = iota
	FormatPatchSet
)

func (f Format) Marker() byte {
	if f == FormatPatchSet {
		return 'P'
	}
	return 'T'
}

func (f Format) String() string {
	if f == FormatPatchSet {
		return "patchset"
	}
	return "changeset"
}

// TableSection is one table's contiguous run of records: the table's
// schema (which supplies the wire header — column count, PK flags, name)
// followed by its records in arrival order, subject to builder
// consolidation (see internal/builder). A section with zero Records is
// pruned before serialization (DiffSet invariant 4 of spec.md §3).
type TableSection struct {
	Schema  *TableSchema
	Records []*Record
}

// DiffSet is an ordered sequence of TableSections, first-arrival ordered
// by table name (spec.md §3 invariant 2). An empty DiffSet serializes to
// zero bytes (invariant 3).
type DiffSet struct {
	Format   Format
	Sections []*TableSection
}

// NonEmptySections returns the sections with at least one record, in
// order, implementing the pruning rule (DiffSet invariant 4).
func (d *DiffSet) NonEmptySections() []*TableSection {
	out := make([]*TableSection, 0, len(d.Sections))
	for _, s := range d.Sections {
		if len(s.Records) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (d *DiffSet) IsEmpty() bool {
	return len(d.NonEmptySections()) == 0
}

// ParsedDiffSet is the output of internal/parser: a DiffSet plus whatever
// the parser observed about the stream that the builder doesn't need but
// a caller inspecting the bytes might (e.g. any non-zero indirect flags it
// tolerated — see spec.md §9's open question on that byte).
type ParsedDiffSet struct {
	DiffSet      *DiffSet
	IndirectSeen bool
}
