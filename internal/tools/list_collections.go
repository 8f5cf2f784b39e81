package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// Ensure ListCollections implements the interface.
var _ driven.Tool = (*ListCollections)(nil)

// ListCollections enumerates the collections in the vector database.
type ListCollections struct{}

// NewListCollections creates the list_collections tool.
func NewListCollections() *ListCollections {
	return &ListCollections{}
}

// Name returns the tool name used for registration and dispatch.
func (t *ListCollections) Name() string {
	return "list_collections"
}

// Description returns the human-readable tool description.
func (t *ListCollections) Description() string {
	return "List all available collections in the vector database"
}

// InputSchema returns the JSON Schema for the tool's arguments.
func (t *ListCollections) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
}

// Execute lists collection names from the backend.
func (t *ListCollections) Execute(ctx context.Context, backend driven.Backend, _ map[string]any) (map[string]any, error) {
	names, err := backend.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"collections": names}, nil
}
