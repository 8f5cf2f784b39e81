package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// Ensure DeleteCollection implements the interface.
var _ driven.Tool = (*DeleteCollection)(nil)

// DeleteCollection removes an entire collection.
type DeleteCollection struct{}

// NewDeleteCollection creates the delete_collection tool.
func NewDeleteCollection() *DeleteCollection {
	return &DeleteCollection{}
}

// Name returns the tool name used for registration and dispatch.
func (t *DeleteCollection) Name() string {
	return "delete_collection"
}

// Description returns the human-readable tool description.
func (t *DeleteCollection) Description() string {
	return "Delete an entire collection and all its documents"
}

// InputSchema returns the JSON Schema for the tool's arguments.
func (t *DeleteCollection) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"collection_name": {
				Type:        "string",
				Description: "Name of the collection to delete",
			},
		},
		Required: []string{"collection_name"},
	}
}

// Execute deletes the collection on the backend.
func (t *DeleteCollection) Execute(ctx context.Context, backend driven.Backend, args map[string]any) (map[string]any, error) {
	deleted, err := backend.DeleteCollection(ctx, stringArg(args, "collection_name"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": deleted}, nil
}
