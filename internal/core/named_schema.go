package core

import "fmt"

// ColumnSchema pairs a wire TableSchema with the column names the wire
// format itself never carries. Only adapters that read or write a
// column-name-addressed format — SQL text, CDC JSON events — need it;
// the wire codec and builder operate on TableSchema and plain column
// indexes throughout.
type ColumnSchema struct {
	Table   *TableSchema
	Columns []string
}

// NewColumnSchema pairs schema with names, one per column, in column
// order. Names must be unique.
func NewColumnSchema(schema *TableSchema, names []string) (*ColumnSchema, error) {
	if len(names) != schema.NumColumns() {
		return nil, fmt.Errorf("column schema %q: %d names for %d columns", schema.Name(), len(names), schema.NumColumns())
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("column schema %q: duplicate column name %q", schema.Name(), n)
		}
		seen[n] = true
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return &ColumnSchema{Table: schema, Columns: cp}, nil
}

// IndexOf returns the column index for name, or false if no column has
// that name.
func (c *ColumnSchema) IndexOf(name string) (int, bool) {
	for i, n := range c.Columns {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
