// Package config reads sqlitediff's TOML schema configuration: the
// table/column/primary-key layout the CLI needs when a caller supplies
// CDC events or SQL text but no live database to introspect.
//
// Grounded on the teacher's internal/parser/toml package — same
// toml.NewDecoder(reader).Decode(&doc) shape and file-open wrapper,
// narrowed from the teacher's full DDL schema document down to the
// name/columns/primary-key triple a ColumnSchema needs.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"sqlitediff/internal/core"
)

// schemaFile is the top-level TOML document: one [[tables]] entry per
// table, each with an ordered [[tables.columns]] list.
type schemaFile struct {
	Tables []tomlTable `toml:"tables"`
}

type tomlTable struct {
	Name    string       `toml:"name"`
	Columns []tomlColumn `toml:"columns"`
}

type tomlColumn struct {
	Name       string `toml:"name"`
	PrimaryKey bool   `toml:"primary_key"`
}

// LoadFile opens the file at path and parses it as a schema config.
func LoadFile(path string) (map[string]*core.ColumnSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads TOML schema configuration from r and returns one
// ColumnSchema per declared table, keyed by table name.
func Load(r io.Reader) (map[string]*core.ColumnSchema, error) {
	var sf schemaFile
	if _, err := toml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("config: decode error: %w", err)
	}

	out := make(map[string]*core.ColumnSchema, len(sf.Tables))
	for _, t := range sf.Tables {
		names := make([]string, len(t.Columns))
		pk := make([]bool, len(t.Columns))
		for i, c := range t.Columns {
			names[i] = c.Name
			pk[i] = c.PrimaryKey
		}

		schema, err := core.NewTableSchema(t.Name, len(names), pk)
		if err != nil {
			return nil, fmt.Errorf("config: table %q: %w", t.Name, err)
		}
		cs, err := core.NewColumnSchema(schema, names)
		if err != nil {
			return nil, fmt.Errorf("config: table %q: %w", t.Name, err)
		}
		out[t.Name] = cs
	}
	return out, nil
}
