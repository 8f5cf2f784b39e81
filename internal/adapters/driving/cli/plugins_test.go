package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginsCmd_ListsEveryFamily(t *testing.T) {
	_, cleanup := setupTestRegistries()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"plugins"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "parsers:   html, md")
	assert.Contains(t, out, "embedders: stub")
	assert.Contains(t, out, "backends:  memory")
	assert.Contains(t, out, "tools:     list_collections, search")
}

func TestPluginsCmd_RequiresWiring(t *testing.T) {
	oldWired := wired
	wired = false
	defer func() { wired = oldWired }()

	err := runPlugins(pluginsCmd, nil)

	assert.Error(t, err)
}
