// Package mysqlintrospect resolves table schemas by querying a live
// MySQL/MariaDB/TiDB server's information_schema, for CLI invocations
// pointed at a real database instead of a TOML schema file.
//
// Grounded on the teacher's internal/introspect/mysql package: same
// information_schema.columns query shape and context-scoped *sql.DB
// usage, narrowed from full DDL introspection down to the name/order/
// primary-key triple a ColumnSchema needs.
package mysqlintrospect

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"sqlitediff/internal/core"
)

// Provider is a sqladapter.SchemaProvider backed by a live database
// connection, caching each table's schema after the first lookup.
type Provider struct {
	db  *sql.DB
	ctx context.Context

	mu    sync.Mutex
	cache map[string]*core.ColumnSchema
}

func New(ctx context.Context, db *sql.DB) *Provider {
	return &Provider{db: db, ctx: ctx, cache: make(map[string]*core.ColumnSchema)}
}

func (p *Provider) TableSchema(name string) (*core.ColumnSchema, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cs, ok := p.cache[name]; ok {
		return cs, nil
	}

	rows, err := p.db.QueryContext(p.ctx, `
		SELECT column_name, column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("mysqlintrospect: table %q: %w", name, err)
	}
	defer rows.Close()

	var names []string
	var pk []bool
	for rows.Next() {
		var colName, colKey sql.NullString
		if err := rows.Scan(&colName, &colKey); err != nil {
			return nil, fmt.Errorf("mysqlintrospect: table %q: %w", name, err)
		}
		names = append(names, colName.String)
		pk = append(pk, colKey.String == "PRI")
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysqlintrospect: table %q: %w", name, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("mysqlintrospect: table %q not found", name)
	}

	schema, err := core.NewTableSchema(name, len(names), pk)
	if err != nil {
		return nil, fmt.Errorf("mysqlintrospect: table %q: %w", name, err)
	}
	cs, err := core.NewColumnSchema(schema, names)
	if err != nil {
		return nil, fmt.Errorf("mysqlintrospect: table %q: %w", name, err)
	}

	p.cache[name] = cs
	return cs, nil
}
