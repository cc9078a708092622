package sqladapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/core"
)

func accountsSchemas(t *testing.T) SchemaProvider {
	t.Helper()
	s, err := core.NewTableSchema("accounts", 3, []bool{true, false, false})
	require.NoError(t, err)
	cs, err := core.NewColumnSchema(s, []string{"id", "balance", "label"})
	require.NoError(t, err)
	return NewStaticSchemaProvider(map[string]*core.ColumnSchema{"accounts": cs})
}

func TestFromSQLInsert(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	err := FromSQL(b, "INSERT INTO accounts (id, balance, label) VALUES (1, 100, 'initial');", schemas)
	require.NoError(t, err)

	cs := b.ChangeSet()
	require.Len(t, cs.Sections, 1)
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindInsert, rec.Kind)
	assert.True(t, rec.Values[1].Value.Equal(core.NewInteger(100)))
	assert.True(t, rec.Values[2].Value.Equal(core.NewText("initial")))
}

func TestFromSQLUpdate(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	err := FromSQL(b, "UPDATE accounts SET balance = 150 WHERE id = 1 AND balance = 100 AND label = 'initial';", schemas)
	require.NoError(t, err)

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindUpdate, rec.Kind)
	assert.True(t, rec.New[1].Value.Equal(core.NewInteger(150)))
	assert.True(t, rec.Old[1].Value.Equal(core.NewInteger(100)))
	assert.True(t, rec.Old[2].Value.Equal(core.NewText("initial")), "columns named in WHERE but not SET still populate old")
}

func TestFromSQLUpdateRejectsWhenPKNotPinned(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	err := FromSQL(b, "UPDATE accounts SET balance = 150 WHERE balance = 100;", schemas)
	assert.Error(t, err)
}

func TestFromSQLDelete(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	err := FromSQL(b, "DELETE FROM accounts WHERE id = 1 AND balance = 100 AND label = 'initial';", schemas)
	require.NoError(t, err)

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindDelete, rec.Kind)
	assert.True(t, rec.Values[0].Value.Equal(core.NewInteger(1)))
}

func TestFromSQLRejectsNonEqualityWhere(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	err := FromSQL(b, "DELETE FROM accounts WHERE balance > 100;", schemas)
	assert.Error(t, err)
}

func TestFromSQLRejectsUnknownTable(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	err := FromSQL(b, "INSERT INTO ghosts (id) VALUES (1);", schemas)
	assert.Error(t, err)
}

func TestToSQLInsert(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	require.NoError(t, b.Insert(mustSchema(t), []core.Value{core.NewInteger(1), core.NewInteger(100), core.NewText("initial")}))

	out, err := ToSQL(b.ChangeSet(), schemas)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `accounts` (`id`, `balance`, `label`) VALUES (1, 100, 'initial');\n", out)
}

func TestToSQLUpdateRendersChangedSetAndFullWhere(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	require.NoError(t, b.Update(mustSchema(t),
		[]core.Slot{core.Defined(core.NewInteger(1)), core.Defined(core.NewInteger(100)), core.Defined(core.NewText("initial"))},
		[]core.Slot{core.Defined(core.NewInteger(1)), core.Defined(core.NewInteger(150)), core.Undefined},
	))

	out, err := ToSQL(b.ChangeSet(), schemas)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `accounts` SET `balance` = 150 WHERE `id` = 1 AND `balance` = 100 AND `label` = 'initial';\n", out)
}

func TestSQLRoundTripIsIdempotent(t *testing.T) {
	schemas := accountsSchemas(t)
	b := builder.New()
	require.NoError(t, FromSQL(b, "UPDATE accounts SET balance = 150, label = 'updated' WHERE id = 1 AND balance = 100 AND label = 'initial';", schemas))

	rendered, err := ToSQL(b.ChangeSet(), schemas)
	require.NoError(t, err)

	b2 := builder.New()
	require.NoError(t, FromSQL(b2, rendered, schemas))
	rerendered, err := ToSQL(b2.ChangeSet(), schemas)
	require.NoError(t, err)

	assert.Equal(t, rendered, rerendered)
}

func mustSchema(t *testing.T) *core.TableSchema {
	t.Helper()
	s, err := core.NewTableSchema("accounts", 3, []bool{true, false, false})
	require.NoError(t, err)
	return s
}
