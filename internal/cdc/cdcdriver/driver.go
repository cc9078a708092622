// Package cdcdriver is the shared engine behind every CDC source package
// (internal/cdc/wal2json, pgwalstream, debezium, maxwell): each source
// package only has to decode its own wire JSON into a row-level
// before/after map pair and a RecordKind, then hand it to Apply. Sharing
// this one code path is what makes structurally equivalent CDC events
// from different tools produce byte-identical diff-sets — the property
// internal/cdc's equivalence tests check.
package cdcdriver

import (
	"errors"
	"fmt"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/core"
	"sqlitediff/internal/sqladapter"
)

// ErrMissingColumn is returned when an INSERT or DELETE's row map is
// missing a column the table schema declares.
var ErrMissingColumn = errors.New("cdcdriver: row is missing a declared column")

// Apply applies one decoded change to b. before/after are column-name
// keyed maps of already-JSON-unmarshaled scalars; before is nil for
// INSERT, after is nil for DELETE, both are non-nil for UPDATE.
func Apply(b *builder.DiffSetBuilder, schemas sqladapter.SchemaProvider, tableName string, kind core.RecordKind, before, after map[string]any) error {
	cs, err := schemas.TableSchema(tableName)
	if err != nil {
		return err
	}

	switch kind {
	case core.KindInsert:
		values, err := fullRow(cs, after)
		if err != nil {
			return fmt.Errorf("cdcdriver: table %q INSERT: %w", tableName, err)
		}
		return b.Insert(cs.Table, values)

	case core.KindDelete:
		values, err := fullRow(cs, before)
		if err != nil {
			return fmt.Errorf("cdcdriver: table %q DELETE: %w", tableName, err)
		}
		return b.Delete(cs.Table, values)

	case core.KindUpdate:
		oldSlots, err := partialRow(cs, before)
		if err != nil {
			return fmt.Errorf("cdcdriver: table %q UPDATE: %w", tableName, err)
		}
		newSlots, err := partialRow(cs, after)
		if err != nil {
			return fmt.Errorf("cdcdriver: table %q UPDATE: %w", tableName, err)
		}
		// A primary-key column absent from before takes its value from
		// after; the builder rejects key changes, so the two are equal.
		for _, col := range cs.Table.PKColumns() {
			if !oldSlots[col].Defined {
				oldSlots[col] = newSlots[col]
			}
		}
		return b.Update(cs.Table, oldSlots, newSlots)

	default:
		return fmt.Errorf("cdcdriver: unknown record kind %d", kind)
	}
}

// fullRow requires every declared column to be present in row — the
// shape INSERT and DELETE changeset records demand.
func fullRow(cs *core.ColumnSchema, row map[string]any) ([]core.Value, error) {
	values := make([]core.Value, cs.Table.NumColumns())
	for i, name := range cs.Columns {
		raw, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		v, err := jsonToValue(raw)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		values[i] = v
	}
	return values, nil
}

// partialRow tolerates absent columns as Undefined, for UPDATE's
// unchanged-column slots.
func partialRow(cs *core.ColumnSchema, row map[string]any) ([]core.Slot, error) {
	slots := make([]core.Slot, cs.Table.NumColumns())
	for i, name := range cs.Columns {
		raw, ok := row[name]
		if !ok {
			slots[i] = core.Undefined
			continue
		}
		v, err := jsonToValue(raw)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		slots[i] = core.Defined(v)
	}
	return slots, nil
}

// jsonToValue converts an already-unmarshaled JSON scalar (encoding/json
// decodes numbers as float64, strings as string, bool as bool, nil as
// nil) to a core.Value. Whole-valued floats become Integer, since every
// CDC source in this package represents integer columns as JSON numbers
// indistinguishable from their float form once decoded generically.
func jsonToValue(raw any) (core.Value, error) {
	switch v := raw.(type) {
	case nil:
		return core.Null, nil
	case bool:
		if v {
			return core.NewInteger(1), nil
		}
		return core.NewInteger(0), nil
	case float64:
		if v == float64(int64(v)) {
			return core.NewInteger(int64(v)), nil
		}
		return core.NewReal(v), nil
	case string:
		return core.NewText(v), nil
	default:
		return core.Value{}, fmt.Errorf("unsupported JSON value type %T", raw)
	}
}
