package sqladapter

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/opcode"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/core"
)

// FromSQL parses sql (one or more statements) with TiDB's parser and feeds
// each INSERT/UPDATE/DELETE it recognizes into b, in the order the
// statements appear. schemas resolves each statement's table name to its
// ColumnSchema.
//
// UPDATE and DELETE read their old-value information from the statement's
// WHERE clause: every top-level `column = literal` conjunct becomes a
// known old value for that column (this is also how ToSQL renders
// records, so the pair round-trips — see ToSQL's doc comment). WHERE
// clauses with anything other than an AND-chain of equalities are
// rejected, as are statements this adapter doesn't recognize (JOINs,
// subqueries, multi-table DELETE).
func FromSQL(b *builder.DiffSetBuilder, sql string, schemas SchemaProvider) error {
	p := parser.New()
	stmtNodes, _, err := p.Parse(sql, "", "")
	if err != nil {
		return fmt.Errorf("sqladapter: parse error: %w", err)
	}

	for _, stmt := range stmtNodes {
		if err := applyStatement(b, stmt, schemas); err != nil {
			return err
		}
	}
	return nil
}

func applyStatement(b *builder.DiffSetBuilder, stmt ast.StmtNode, schemas SchemaProvider) error {
	switch s := stmt.(type) {
	case *ast.InsertStmt:
		return applyInsert(b, s, schemas)
	case *ast.UpdateStmt:
		return applyUpdate(b, s, schemas)
	case *ast.DeleteStmt:
		return applyDelete(b, s, schemas)
	default:
		return fmt.Errorf("sqladapter: unsupported statement type %T", stmt)
	}
}

func applyInsert(b *builder.DiffSetBuilder, s *ast.InsertStmt, schemas SchemaProvider) error {
	tableName, err := singleTableName(s.Table.TableRefs)
	if err != nil {
		return err
	}
	cs, err := schemas.TableSchema(tableName)
	if err != nil {
		return err
	}

	colNames := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		colNames[i] = c.Name.O
	}

	for _, row := range s.Lists {
		if len(row) != len(colNames) {
			return fmt.Errorf("sqladapter: table %q: INSERT has %d values for %d columns", tableName, len(row), len(colNames))
		}
		values := make([]core.Value, cs.Table.NumColumns())
		for i, expr := range row {
			v, err := exprToValue(expr)
			if err != nil {
				return fmt.Errorf("sqladapter: table %q, column %q: %w", tableName, colNames[i], err)
			}
			col, ok := cs.IndexOf(colNames[i])
			if !ok {
				return fmt.Errorf("sqladapter: table %q has no column %q", tableName, colNames[i])
			}
			values[col] = v
		}
		if err := b.Insert(cs.Table, values); err != nil {
			return err
		}
	}
	return nil
}

func applyDelete(b *builder.DiffSetBuilder, s *ast.DeleteStmt, schemas SchemaProvider) error {
	tableName, err := singleTableName(s.TableRefs.TableRefs)
	if err != nil {
		return err
	}
	cs, err := schemas.TableSchema(tableName)
	if err != nil {
		return err
	}

	known, err := whereEqualities(s.Where)
	if err != nil {
		return fmt.Errorf("sqladapter: table %q DELETE: %w", tableName, err)
	}

	values := make([]core.Value, cs.Table.NumColumns())
	for name, v := range known {
		col, ok := cs.IndexOf(name)
		if !ok {
			return fmt.Errorf("sqladapter: table %q has no column %q", tableName, name)
		}
		values[col] = v
	}
	return b.Delete(cs.Table, values)
}

func applyUpdate(b *builder.DiffSetBuilder, s *ast.UpdateStmt, schemas SchemaProvider) error {
	tableName, err := singleTableName(s.TableRefs.TableRefs)
	if err != nil {
		return err
	}
	cs, err := schemas.TableSchema(tableName)
	if err != nil {
		return err
	}

	known, err := whereEqualities(s.Where)
	if err != nil {
		return fmt.Errorf("sqladapter: table %q UPDATE: %w", tableName, err)
	}

	n := cs.Table.NumColumns()
	old := make([]core.Slot, n)
	newS := make([]core.Slot, n)
	for name, v := range known {
		col, ok := cs.IndexOf(name)
		if !ok {
			return fmt.Errorf("sqladapter: table %q has no column %q", tableName, name)
		}
		old[col] = core.Defined(v)
		newS[col] = core.Defined(v)
	}

	for _, asn := range s.List {
		col, ok := cs.IndexOf(asn.Column.Name.O)
		if !ok {
			return fmt.Errorf("sqladapter: table %q has no column %q", tableName, asn.Column.Name.O)
		}
		v, err := exprToValue(asn.Expr)
		if err != nil {
			return fmt.Errorf("sqladapter: table %q, column %q: %w", tableName, asn.Column.Name.O, err)
		}
		newS[col] = core.Defined(v)
	}

	for _, col := range cs.Table.PKColumns() {
		if !old[col].Defined {
			return fmt.Errorf("sqladapter: table %q UPDATE: WHERE clause does not pin primary key column %q", tableName, cs.Columns[col])
		}
	}

	return b.Update(cs.Table, old, newS)
}

func singleTableName(refs *ast.Join) (string, error) {
	if refs.Right != nil {
		return "", fmt.Errorf("sqladapter: multi-table statements (JOINs) are not supported")
	}
	src, ok := refs.Left.(*ast.TableSource)
	if !ok {
		return "", fmt.Errorf("sqladapter: expected a plain table reference, got %T", refs.Left)
	}
	name, ok := src.Source.(*ast.TableName)
	if !ok {
		return "", fmt.Errorf("sqladapter: expected a table name, got %T", src.Source)
	}
	return name.Name.O, nil
}

// whereEqualities walks a WHERE clause that must be an AND-chain (or a
// single conjunct) of `column = literal` comparisons, returning the
// column/value pairs found.
func whereEqualities(where ast.ExprNode) (map[string]core.Value, error) {
	out := make(map[string]core.Value)
	if where == nil {
		return out, nil
	}
	var walk func(ast.ExprNode) error
	walk = func(e ast.ExprNode) error {
		bin, ok := e.(*ast.BinaryOperationExpr)
		if !ok {
			return fmt.Errorf("unsupported WHERE expression %T", e)
		}
		switch bin.Op {
		case opcode.LogicAnd:
			if err := walk(bin.L); err != nil {
				return err
			}
			return walk(bin.R)
		case opcode.EQ:
			col, ok := bin.L.(*ast.ColumnNameExpr)
			if !ok {
				return fmt.Errorf("unsupported WHERE comparison left-hand side %T", bin.L)
			}
			v, err := exprToValue(bin.R)
			if err != nil {
				return err
			}
			out[col.Name.Name.O] = v
			return nil
		default:
			return fmt.Errorf("unsupported WHERE operator %v", bin.Op)
		}
	}
	if err := walk(where); err != nil {
		return nil, err
	}
	return out, nil
}

func exprToValue(expr ast.ExprNode) (core.Value, error) {
	ve, ok := expr.(ast.ValueExpr)
	if !ok {
		return core.Value{}, fmt.Errorf("expected a literal, got %T", expr)
	}
	switch v := ve.GetValue().(type) {
	case nil:
		return core.Null, nil
	case int64:
		return core.NewInteger(v), nil
	case uint64:
		return core.NewInteger(int64(v)), nil
	case float64:
		return core.NewReal(v), nil
	case string:
		return core.NewText(v), nil
	case []byte:
		return core.NewBlob(v), nil
	default:
		return core.Value{}, fmt.Errorf("unsupported literal type %T", v)
	}
}
