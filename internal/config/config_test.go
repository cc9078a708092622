package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesTablesAndColumns(t *testing.T) {
	doc := `
[[tables]]
name = "users"

  [[tables.columns]]
  name = "id"
  primary_key = true

  [[tables.columns]]
  name = "name"

[[tables]]
name = "orders"

  [[tables.columns]]
  name = "id"
  primary_key = true

  [[tables.columns]]
  name = "user_id"
`
	schemas, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Contains(t, schemas, "users")
	require.Contains(t, schemas, "orders")

	users := schemas["users"]
	assert.Equal(t, 2, users.Table.NumColumns())
	idx, ok := users.IndexOf("name")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.True(t, users.Table.IsPK(0))
	assert.False(t, users.Table.IsPK(1))
}

func TestLoadRejectsTableWithoutPrimaryKey(t *testing.T) {
	doc := `
[[tables]]
name = "users"

  [[tables.columns]]
  name = "id"
`
	_, err := Load(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(strings.NewReader("not valid = = toml"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/schema.toml")
	assert.Error(t, err)
}
