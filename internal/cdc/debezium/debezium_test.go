package debezium

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
	event := []byte(`{"payload":{"before":null,"after":{"id":1,"name":"alice"},"source":{"table":"users"},"op":"c"}}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindInsert, rec.Kind)
	assert.True(t, rec.Values[1].Value.Equal(core.NewText("alice")))
}

func TestFromEventUpdate(t *testing.T) {
	event := []byte(`{"payload":{"before":{"id":1,"name":"alice"},"after":{"id":1,"name":"alicia"},"source":{"table":"users"},"op":"u"}}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	rec := cs.Sections[0].Records[0]
	assert.Equal(t, core.KindUpdate, rec.Kind)
	assert.True(t, rec.New[1].Value.Equal(core.NewText("alicia")))
}

func TestFromEventDelete(t *testing.T) {
	event := []byte(`{"payload":{"before":{"id":1,"name":"alice"},"after":null,"source":{"table":"users"},"op":"d"}}`)
	b := builder.New()
	require.NoError(t, FromEvent(b, event, usersSchemas(t)))

	cs := b.ChangeSet()
	assert.Equal(t, core.KindDelete, cs.Sections[0].Records[0].Kind)
}

func TestFromEventUnknownOp(t *testing.T) {
	event := []byte(`{"payload":{"source":{"table":"users"},"op":"t"}}`)
	b := builder.New()
	err := FromEvent(b, event, usersSchemas(t))
	assert.Error(t, err)
}
