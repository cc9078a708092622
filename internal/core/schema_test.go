package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableSchemaValid(t *testing.T) {
	s, err := NewTableSchema("users", 3, []bool{true, false, false})
	require.NoError(t, err)
	assert.Equal(t, "users", s.Name())
	assert.Equal(t, 3, s.NumColumns())
	assert.Equal(t, []int{0}, s.PKColumns())
	assert.True(t, s.IsPK(0))
	assert.False(t, s.IsPK(1))
	assert.False(t, s.IsPK(99))
}

func TestNewTableSchemaErrors(t *testing.T) {
	_, err := NewTableSchema("", 1, []bool{true})
	assert.Error(t, err)

	_, err = NewTableSchema("bad\x00name", 1, []bool{true})
	assert.Error(t, err)

	_, err = NewTableSchema("t", 0, nil)
	assert.Error(t, err)

	_, err = NewTableSchema("t", 2, []bool{true})
	assert.Error(t, err)

	_, err = NewTableSchema("t", 2, []bool{false, false})
	assert.Error(t, err)
}

func TestNewTableSchemaCopiesPKInput(t *testing.T) {
	pk := []bool{true, false}
	s, err := NewTableSchema("t", 2, pk)
	require.NoError(t, err)
	pk[0] = false
	assert.True(t, s.IsPK(0), "mutating the input slice must not affect the schema")
}

func TestNewColumnSchema(t *testing.T) {
	s, err := NewTableSchema("t", 2, []bool{true, false})
	require.NoError(t, err)

	cs, err := NewColumnSchema(s, []string{"id", "name"})
	require.NoError(t, err)
	idx, ok := cs.IndexOf("name")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = cs.IndexOf("missing")
	assert.False(t, ok)

	_, err = NewColumnSchema(s, []string{"id"})
	assert.Error(t, err)

	_, err = NewColumnSchema(s, []string{"id", "id"})
	assert.Error(t, err)
}
