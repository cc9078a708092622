package wal2json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/core"
	"sqlitediff/internal/sqladapter"
)

func usersSchemas(t *testing.T) sqladapter.SchemaProvider {
	t.Helper()
	s, err := core.NewTableSchema("users", 2, []bool{true, false})
	require.NoError(t, err)
	cs, err := core.NewColumnSchema(s, []string{"id", "name"})
	require.NoError(t, err)
	return sqladapter.NewStaticSchemaProvider(map[string]*core.ColumnSchema{"users": cs})
}

func TestFromEventInsert(t *testing.T) {
	event := []byte(`{"change":[{"kind":"insert","table":"users","columnnames":["id","name"],"columnvalues":[1,"alice"]}]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindInsert, rec.Kind)
	assert.True(t, rec.Values[1].Value.Equal(core.NewText("alice")))
}

func TestFromEventUpdate(t *testing.T) {
	event := []byte(`{"change":[{"kind":"update","table":"users","columnnames":["id","name"],"columnvalues":[1,"alicia"],"oldkeys":{"keynames":["id","name"],"keyvalues":[1,"alice"]}}]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindUpdate, rec.Kind)
	assert.True(t, rec.Old[1].Value.Equal(core.NewText("alice")))
	assert.True(t, rec.New[1].Value.Equal(core.NewText("alicia")))
}

func TestFromEventDeleteUsesOldKeys(t *testing.T) {
	event := []byte(`{"change":[{"kind":"delete","table":"users","oldkeys":{"keynames":["id","name"],"keyvalues":[1,"alice"]}}]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindDelete, rec.Kind)
	assert.True(t, rec.Values[0].Value.Equal(core.NewInteger(1)))
	assert.True(t, rec.Values[1].Value.Equal(core.NewText("alice")))
}

func TestFromEventMultipleChangesInOrder(t *testing.T) {
	event := []byte(`{"change":[
		{"kind":"insert","table":"users","columnnames":["id","name"],"columnvalues":[1,"alice"]},
		{"kind":"insert","table":"users","columnnames":["id","name"],"columnvalues":[2,"bob"]}
	]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))
	assert.Equal(t, 2, b.Len())
}

func TestFromEventUnknownKind(t *testing.T) {
	event := []byte(`{"change":[{"kind":"truncate","table":"users"}]}`)
	b := builder.New()
	assert.Error(t, FromEvent(b, event, usersSchemas(t)))
}
