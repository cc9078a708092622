// Package wal2json decodes the wal2json PostgreSQL logical-decoding
// output format (component J) into diff-set operations via
// cdcdriver.Apply.
package wal2json

import (
	"encoding/json"
	"fmt"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/cdc"
	"sqlitediff/internal/cdc/cdcdriver"
	"sqlitediff/internal/core"
	"sqlitediff/internal/sqladapter"
)

func init() {
	cdc.Register("wal2json", FromEvent)
}

type changeSet struct {
	Change []change `json:"change"`
}

type change struct {
	Kind         string   `json:"kind"`
	Table        string   `json:"table"`
	ColumnNames  []string `json:"columnnames"`
	ColumnValues []any    `json:"columnvalues"`
	OldKeys      *keys    `json:"oldkeys"`
}

type keys struct {
	KeyNames  []string `json:"keynames"`
	KeyValues []any    `json:"keyvalues"`
}

// FromEvent decodes a wal2json change-set, applying every change it
// contains in order. "insert" becomes INSERT, "update" becomes UPDATE
// (oldkeys supplies the known-old columns, always a subset — the
// replica identity's columns — per wal2json's own documented shape),
// "delete" becomes DELETE (built from oldkeys, wal2json's only source of
// row data for a delete).
func FromEvent(b *builder.DiffSetBuilder, event []byte, schemas sqladapter.SchemaProvider) error {
	var cs changeSet
	if err := json.Unmarshal(event, &cs); err != nil {
		return fmt.Errorf("wal2json: %w", err)
	}

	for _, c := range cs.Change {
		row := make(map[string]any, len(c.ColumnNames))
		for i, name := range c.ColumnNames {
			if i < len(c.ColumnValues) {
				row[name] = c.ColumnValues[i]
			}
		}
		var old map[string]any
		if c.OldKeys != nil {
			old = make(map[string]any, len(c.OldKeys.KeyNames))
			for i, name := range c.OldKeys.KeyNames {
				if i < len(c.OldKeys.KeyValues) {
					old[name] = c.OldKeys.KeyValues[i]
				}
			}
		}

		var kind core.RecordKind
		switch c.Kind {
		case "insert":
			kind = core.KindInsert
			old = nil
		case "update":
			kind = core.KindUpdate
		case "delete":
			kind = core.KindDelete
			row = nil
		default:
			return fmt.Errorf("wal2json: unknown kind %q", c.Kind)
		}

		if err := cdcdriver.Apply(b, schemas, c.Table, kind, old, row); err != nil {
			return err
		}
	}
	return nil
}
