package sqladapter

import (
	"fmt"

	"sqlitediff/internal/core"
)

// SchemaProvider resolves a bare table name to the ColumnSchema FromSQL
// and ToSQL need: which columns are present, in what order, which form
// the primary key, and what each is called — information DML statements
// don't always spell out themselves (e.g. `UPDATE t SET x = 1 WHERE id =
// 2` names only the touched and keyed columns, not the full row shape).
type SchemaProvider interface {
	TableSchema(name string) (*core.ColumnSchema, error)
}

// StaticSchemaProvider is the simplest SchemaProvider: a fixed table-name
// to schema mapping, built ahead of time (from TOML config or
// introspection) and handed to FromSQL/ToSQL unchanged.
type StaticSchemaProvider struct {
	schemas map[string]*core.ColumnSchema
}

func NewStaticSchemaProvider(schemas map[string]*core.ColumnSchema) *StaticSchemaProvider {
	return &StaticSchemaProvider{schemas: schemas}
}

func (p *StaticSchemaProvider) TableSchema(name string) (*core.ColumnSchema, error) {
	schema, ok := p.schemas[name]
	if !ok {
		return nil, fmt.Errorf("sqladapter: no schema registered for table %q", name)
	}
	return schema, nil
}
