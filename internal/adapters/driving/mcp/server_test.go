package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry/internal/backends/memory"
	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/dispatch"
	"github.com/custodia-labs/quarry/internal/registry"
	"github.com/custodia-labs/quarry/internal/tools"
)

func newTestServer(t *testing.T, backend *memory.Backend) *Server {
	t.Helper()
	reg := registry.New("tool", driven.Tool.Name)
	reg.Register(tools.NewSearch())
	reg.Register(tools.NewListCollections())

	dispatcher, err := dispatch.New(reg, backend, nil)
	require.NoError(t, err)

	server, err := NewServer(dispatcher)
	require.NoError(t, err)
	return server
}

func callTool(t *testing.T, server *Server, name string, args any) *mcp.CallToolResult {
	t.Helper()
	data, err := json.Marshal(args)
	require.NoError(t, err)

	handler := server.handlerFor(name)
	result, err := handler(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: json.RawMessage(data),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestNewServerRequiresDispatcher(t *testing.T) {
	_, err := NewServer(nil)

	assert.ErrorIs(t, err, ErrMissingDispatcher)
}

func TestCallToolSuccess(t *testing.T) {
	backend := memory.New()
	backend.Seed("docs", map[string]any{"text": "gophers in the wild"})
	server := newTestServer(t, backend)

	result := callTool(t, server, "search", map[string]any{
		"collection_name": "docs",
		"query":           "gophers",
	})

	assert.False(t, result.IsError)
	structured, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, structured["count"])

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "gophers in the wild")
}

func TestCallToolUnknownName(t *testing.T) {
	server := newTestServer(t, memory.New())

	result := callTool(t, server, "no_such_tool", map[string]any{})

	assert.True(t, result.IsError)
	structured, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, KindUnknownTool, structured["kind"])
}

func TestCallToolInvalidArguments(t *testing.T) {
	backend := memory.New()
	server := newTestServer(t, backend)

	result := callTool(t, server, "search", map[string]any{
		"collection_name": "docs",
	})

	assert.True(t, result.IsError)
	structured, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, KindInvalidArguments, structured["kind"])
	assert.Zero(t, backend.Calls())
}

func TestCallToolBackendFailure(t *testing.T) {
	server := newTestServer(t, memory.New())

	// Searching a collection that does not exist fails inside the backend.
	result := callTool(t, server, "search", map[string]any{
		"collection_name": "missing",
		"query":           "anything",
	})

	assert.True(t, result.IsError)
	structured, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, KindBackendFailure, structured["kind"])
}

func TestCallToolMalformedArguments(t *testing.T) {
	server := newTestServer(t, memory.New())

	handler := server.handlerFor("search")
	result, err := handler(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      "search",
			Arguments: json.RawMessage(`[1, 2, 3]`),
		},
	})

	require.NoError(t, err)
	assert.True(t, result.IsError)
	structured, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, KindInvalidArguments, structured["kind"])
}

func TestCoerceArguments(t *testing.T) {
	args, err := coerceArguments(nil)
	require.NoError(t, err)
	assert.Nil(t, args)

	args, err = coerceArguments(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, args)

	args, err = coerceArguments(json.RawMessage(`{"a": "b"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "b"}, args)

	args, err = coerceArguments(json.RawMessage(``))
	require.NoError(t, err)
	assert.Nil(t, args)

	_, err = coerceArguments(json.RawMessage(`"not an object"`))
	assert.Error(t, err)
}

func TestErrorKindClassification(t *testing.T) {
	assert.Equal(t, KindUnknownTool, errorKind(fmt.Errorf("x: %w", domain.ErrUnknownTool)))
	assert.Equal(t, KindInvalidArguments, errorKind(fmt.Errorf("x: %w", domain.ErrInvalidArguments)))
	assert.Equal(t, KindBackendFailure, errorKind(fmt.Errorf("x: %w", domain.ErrBackendFailure)))
	assert.Equal(t, KindInternal, errorKind(errors.New("anything else")))
}
