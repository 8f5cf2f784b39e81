package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/registry"
)

func TestRegisterDefaults_AllToolsPresent(t *testing.T) {
	catalog := registry.NewCatalog[driven.Tool]()
	RegisterDefaults(catalog)

	for _, name := range []string{
		"search", "list_collections", "get_documents", "delete_collection", "add_documents",
	} {
		require.True(t, catalog.Has(name), "missing builder %q", name)
		tool, err := catalog.Build(name, nil)
		require.NoError(t, err)
		assert.Equal(t, name, tool.Name())
		assert.NotEmpty(t, tool.Description())
	}
}

func TestInputSchemas_Resolve(t *testing.T) {
	catalog := registry.NewCatalog[driven.Tool]()
	RegisterDefaults(catalog)

	for _, name := range catalog.Names() {
		tool, err := catalog.Build(name, nil)
		require.NoError(t, err)

		schema := tool.InputSchema()
		require.NotNil(t, schema, "%s has no schema", name)
		_, err = schema.Resolve(nil)
		assert.NoError(t, err, "%s schema does not resolve", name)
	}
}

func TestSearchSchema_RequiresCollectionAndQuery(t *testing.T) {
	schema := NewSearch().InputSchema()

	assert.ElementsMatch(t, []string{"collection_name", "query"}, schema.Required)
}

func TestIntArg(t *testing.T) {
	args := map[string]any{
		"float": float64(7),
		"int":   3,
		"text":  "nope",
	}

	assert.Equal(t, 7, intArg(args, "float", 1))
	assert.Equal(t, 3, intArg(args, "int", 1))
	assert.Equal(t, 1, intArg(args, "text", 1))
	assert.Equal(t, 1, intArg(args, "missing", 1))
}

func TestStringArg(t *testing.T) {
	args := map[string]any{"name": "docs", "n": 4}

	assert.Equal(t, "docs", stringArg(args, "name"))
	assert.Empty(t, stringArg(args, "n"))
	assert.Empty(t, stringArg(args, "missing"))
}
