// Package pgwalstream decodes pg_walstream's per-column JSON row-event
// format (component J) into diff-set operations via cdcdriver.Apply.
//
// Its wire shape is deliberately unlike wal2json's parallel-array
// format — one JSON object per column instead of a columnnames/
// columnvalues pair — so that internal/cdc's equivalence tests exercise
// two genuinely different encodings of the same logical change, not two
// copies of one.
package pgwalstream

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
	cdc.Register("pg_walstream", FromEvent)
}

type event struct {
	Table    string   `json:"table"`
	Action   string   `json:"action"`
	Columns  []column `json:"columns"`
	Identity []column `json:"identity"`
}

type column struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func columnsToMap(cols []column) map[string]any {
	if cols == nil {
		return nil
	}
	m := make(map[string]any, len(cols))
	for _, c := range cols {
		m[c.Name] = c.Value
	}
	return m
}

// FromEvent decodes one pg_walstream row event. Action "I" is INSERT,
// "U" is UPDATE (identity carries the replica-identity columns'
// pre-change values, the same role wal2json's oldkeys plays), "D" is
// DELETE (built from identity, pg_walstream's only source of row data
// for a delete).
func FromEvent(b *builder.DiffSetBuilder, event_ []byte, schemas sqladapter.SchemaProvider) error {
	var e event
	if err := json.Unmarshal(event_, &e); err != nil {
		return fmt.Errorf("pgwalstream: %w", err)
	}

	row := columnsToMap(e.Columns)
	identity := columnsToMap(e.Identity)

	var kind core.RecordKind
	var before, after map[string]any
	switch e.Action {
	case "I":
		kind = core.KindInsert
		after = row
	case "U":
		kind = core.KindUpdate
		before = identity
		after = row
	case "D":
		kind = core.KindDelete
		before = identity
	default:
		return fmt.Errorf("pgwalstream: unknown action %q", e.Action)
	}

	return cdcdriver.Apply(b, schemas, e.Table, kind, before, after)
}
