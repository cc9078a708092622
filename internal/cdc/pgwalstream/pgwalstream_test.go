package pgwalstream

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
	event := []byte(`{"table":"users","action":"I","columns":[{"name":"id","value":1},{"name":"name","value":"alice"}]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindInsert, rec.Kind)
	assert.True(t, rec.Values[1].Value.Equal(core.NewText("alice")))
}

func TestFromEventUpdate(t *testing.T) {
	event := []byte(`{"table":"users","action":"U","columns":[{"name":"id","value":1},{"name":"name","value":"alicia"}],"identity":[{"name":"id","value":1},{"name":"name","value":"alice"}]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindUpdate, rec.Kind)
	assert.True(t, rec.Old[1].Value.Equal(core.NewText("alice")))
	assert.True(t, rec.New[1].Value.Equal(core.NewText("alicia")))
}

func TestFromEventDeleteUsesIdentity(t *testing.T) {
	event := []byte(`{"table":"users","action":"D","identity":[{"name":"id","value":1},{"name":"name","value":"alice"}]}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	assert.Equal(t, core.KindDelete, cs.Sections[0].Records[0].Kind)
}

func TestFromEventUnknownAction(t *testing.T) {
	event := []byte(`{"table":"users","action":"X"}`)
	b := builder.New()
	assert.Error(t, FromEvent(b, event, usersSchemas(t)))
}
