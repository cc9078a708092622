// Package ddlprovider resolves table schemas from CREATE TABLE text
// parsed with TiDB's SQL parser, for the CLI's `encode`, `sql` and
// `convert` subcommands when the caller passes schema DDL instead of a TOML
// schema file.
//
// Grounded on the teacher's internal/parser/mysql package: same
// parser.New()/ast.CreateTableStmt walk, narrowed to column order and
// primary-key detection rather than the full core.Table model.
package ddlprovider

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"sqlitediff/internal/core"
)

// Provider is a sqladapter.SchemaProvider built once from a batch of
// CREATE TABLE statements.
type Provider struct {
	tables map[string]*core.ColumnSchema
}

// Parse reads every CREATE TABLE statement in ddl and returns a Provider
// that can resolve each one's table name.
func Parse(ddl string) (*Provider, error) {
	p := parser.New()
	stmtNodes, _, err := p.Parse(ddl, "", "")
	if err != nil {
		return nil, fmt.Errorf("ddlprovider: %w", err)
	}

	tables := make(map[string]*core.ColumnSchema)
	for _, stmt := range stmtNodes {
		create, ok := stmt.(*ast.CreateTableStmt)
		if !ok {
			continue
		}
		cs, err := convertCreateTable(create)
		if err != nil {
			return nil, err
		}
		tables[cs.Table.Name()] = cs
	}
	return &Provider{tables: tables}, nil
}

func (p *Provider) TableSchema(name string) (*core.ColumnSchema, error) {
	cs, ok := p.tables[name]
	if !ok {
		return nil, fmt.Errorf("ddlprovider: no CREATE TABLE found for %q", name)
	}
	return cs, nil
}

func convertCreateTable(stmt *ast.CreateTableStmt) (*core.ColumnSchema, error) {
	tableName := stmt.Table.Name.O

	names := make([]string, len(stmt.Cols))
	pk := make([]bool, len(stmt.Cols))
	index := make(map[string]int, len(stmt.Cols))
	for i, col := range stmt.Cols {
		names[i] = col.Name.Name.O
		index[names[i]] = i
		for _, opt := range col.Options {
			if opt.Tp == ast.ColumnOptionPrimaryKey {
				pk[i] = true
			}
		}
	}

	for _, constraint := range stmt.Constraints {
		if constraint.Tp != ast.ConstraintPrimaryKey {
			continue
		}
		for _, key := range constraint.Keys {
			if i, ok := index[key.Column.Name.O]; ok {
				pk[i] = true
			}
		}
	}

	schema, err := core.NewTableSchema(tableName, len(names), pk)
	if err != nil {
		return nil, fmt.Errorf("ddlprovider: table %q: %w", tableName, err)
	}
	return core.NewColumnSchema(schema, names)
}
