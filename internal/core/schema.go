package core

import (
	"fmt"
	"strings"
)

// TableSchema describes the shape of a table well enough to encode and
// decode row records against it: a name, a column count, and which columns
// are part of the primary key. It is read-only after construction — the
// builder and every record type hold it by reference, never copy and
// mutate it.
type TableSchema struct {
	name    string
	columns int
	pk      []bool
}

// NewTableSchema validates and builds a TableSchema. It rejects an empty
// name, a name containing an interior NUL (the wire format NUL-terminates
// table names, so one embedded in the name would corrupt framing), a
// column count of zero, a pk slice whose length disagrees with columns,
// and a pk slice with no column flagged — mirroring the teacher's
// validate_table.go invariant-checking shape, generalized down to this
// spec's three schema invariants instead of full DDL validation.
func NewTableSchema(name string, columns int, pk []bool) (*TableSchema, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("table schema: name must not be empty")
	}
	if strings.ContainsRune(name, 0) {
		return nil, fmt.Errorf("table schema %q: name must not contain a NUL byte", name)
	}
	if columns <= 0 {
		return nil, fmt.Errorf("table schema %q: column count must be at least 1", name)
	}
	if len(pk) != columns {
		return nil, fmt.Errorf("table schema %q: pk flag count %d does not match column count %d", name, len(pk), columns)
	}
	hasPK := false
	for _, p := range pk {
		if p {
			hasPK = true
			break
		}
	}
	if !hasPK {
		return nil, fmt.Errorf("table schema %q: at least one column must be flagged primary key", name)
	}
	cp := make([]bool, columns)
	copy(cp, pk)
	return &TableSchema{name: name, columns: columns, pk: cp}, nil
}

func (s *TableSchema) Name() string { return s.name }

func (s *TableSchema) NumColumns() int { return s.columns }

// PKFlags returns the per-column primary-key flags, in column order. The
// returned slice must not be mutated by the caller.
func (s *TableSchema) PKFlags() []bool { return s.pk }

func (s *TableSchema) IsPK(col int) bool {
	return col >= 0 && col < len(s.pk) && s.pk[col]
}

// PKColumns returns the indexes of the primary-key columns, in column order.
func (s *TableSchema) PKColumns() []int {
	out := make([]int, 0, 1)
	for i, p := range s.pk {
		if p {
			out = append(out, i)
		}
	}
	return out
}
