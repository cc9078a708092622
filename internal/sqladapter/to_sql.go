package sqladapter

import (
	"fmt"
	"strings"

	"sqlitediff/internal/core"
)

// ToSQL renders d as a sequence of semicolon-terminated DML statements,
// one per record, in table and record order. It is the mirror image of
// FromSQL: INSERT becomes a literal INSERT INTO ... VALUES; UPDATE
// becomes an UPDATE ... SET <changed columns> WHERE <every captured old
// value, ANDed> — the same optimistic-concurrency shape SQLite's own
// session apply routine uses; DELETE becomes a DELETE ... WHERE <every
// captured column, ANDed>, which for a changeset's full pre-image means
// every column of the row.
//
// ToSQL requires column names, so the DiffSet's table sections must
// match the ColumnSchema the caller resolved through a SchemaProvider —
// mismatched column counts produce an error rather than a malformed
// statement. Only changesets are accepted: a patchset yields an error,
// since its UPDATE records carry no old values.
func ToSQL(d *core.DiffSet, schemas SchemaProvider) (string, error) {
	if d.Format == core.FormatPatchSet {
		return "", fmt.Errorf("sqladapter: patchsets carry no old values and cannot be rendered as SQL")
	}
	var sb strings.Builder
	for _, section := range d.Sections {
		cs, err := schemas.TableSchema(section.Schema.Name())
		if err != nil {
			return "", err
		}
		if cs.Table.NumColumns() != section.Schema.NumColumns() {
			return "", fmt.Errorf("sqladapter: table %q: schema has %d columns, diff-set section has %d", section.Schema.Name(), cs.Table.NumColumns(), section.Schema.NumColumns())
		}
		for _, rec := range section.Records {
			stmt, err := recordToSQL(cs, rec)
			if err != nil {
				return "", err
			}
			sb.WriteString(stmt)
			sb.WriteString(";\n")
		}
	}
	return sb.String(), nil
}

func recordToSQL(cs *core.ColumnSchema, rec *core.Record) (string, error) {
	switch rec.Kind {
	case core.KindInsert:
		return insertSQL(cs, rec.Values)
	case core.KindDelete:
		return deleteSQL(cs, rec.Values)
	case core.KindUpdate:
		return updateSQL(cs, rec.Old, rec.New)
	default:
		return "", fmt.Errorf("sqladapter: record has unknown kind %d", rec.Kind)
	}
}

func insertSQL(cs *core.ColumnSchema, values []core.Slot) (string, error) {
	cols := make([]string, 0, len(values))
	lits := make([]string, 0, len(values))
	for i, s := range values {
		if !s.Defined {
			return "", fmt.Errorf("sqladapter: table %q INSERT: column %q is not a full row", cs.Table.Name(), cs.Columns[i])
		}
		cols = append(cols, quoteIdentifier(cs.Columns[i]))
		lits = append(lits, s.Value.SQLLiteral())
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(cs.Table.Name()), strings.Join(cols, ", "), strings.Join(lits, ", ")), nil
}

func deleteSQL(cs *core.ColumnSchema, values []core.Slot) (string, error) {
	var conds []string
	for i, s := range values {
		if !s.Defined {
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = %s", quoteIdentifier(cs.Columns[i]), s.Value.SQLLiteral()))
	}
	if len(conds) == 0 {
		return "", fmt.Errorf("sqladapter: table %q DELETE: no columns captured to build a WHERE clause", cs.Table.Name())
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdentifier(cs.Table.Name()), strings.Join(conds, " AND ")), nil
}

func updateSQL(cs *core.ColumnSchema, old, new []core.Slot) (string, error) {
	var sets []string
	var conds []string
	for i := range new {
		if new[i].Defined && !(old[i].Defined && new[i].Value.Equal(old[i].Value)) {
			sets = append(sets, fmt.Sprintf("%s = %s", quoteIdentifier(cs.Columns[i]), new[i].Value.SQLLiteral()))
		}
		if old[i].Defined {
			conds = append(conds, fmt.Sprintf("%s = %s", quoteIdentifier(cs.Columns[i]), old[i].Value.SQLLiteral()))
		}
	}
	if len(sets) == 0 {
		return "", fmt.Errorf("sqladapter: table %q UPDATE: no changed columns", cs.Table.Name())
	}
	if len(conds) == 0 {
		return "", fmt.Errorf("sqladapter: table %q UPDATE: no columns captured to build a WHERE clause", cs.Table.Name())
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quoteIdentifier(cs.Table.Name()), strings.Join(sets, ", "), strings.Join(conds, " AND ")), nil
}

// quoteIdentifier backtick-quotes a MySQL identifier, doubling any
// embedded backtick — same convention as the teacher's
// dialect/mysql.Generator.QuoteIdentifier.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
