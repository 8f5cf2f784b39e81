package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// DefaultGetLimit caps page size when the caller does not pass a limit.
const DefaultGetLimit = 10

// Ensure GetDocuments implements the interface.
var _ driven.Tool = (*GetDocuments)(nil)

// GetDocuments retrieves documents from a collection with pagination.
type GetDocuments struct{}

// NewGetDocuments creates the get_documents tool.
func NewGetDocuments() *GetDocuments {
	return &GetDocuments{}
}

// Name returns the tool name used for registration and dispatch.
func (t *GetDocuments) Name() string {
	return "get_documents"
}

// Description returns the human-readable tool description.
func (t *GetDocuments) Description() string {
	return "Retrieve documents from a collection with optional pagination"
}

// InputSchema returns the JSON Schema for the tool's arguments.
func (t *GetDocuments) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"collection_name": {
				Type:        "string",
				Description: "Name of the collection",
			},
			"limit": {
				Type:        "integer",
				Description: "Maximum number of documents to return (default 10)",
			},
			"offset": {
				Type:        "string",
				Description: "Pagination offset from a previous request",
			},
		},
		Required: []string{"collection_name"},
	}
}

// Execute retrieves a page of documents from the backend.
func (t *GetDocuments) Execute(ctx context.Context, backend driven.Backend, args map[string]any) (map[string]any, error) {
	limit := intArg(args, "limit", DefaultGetLimit)
	if limit <= 0 {
		limit = DefaultGetLimit
	}

	page, err := backend.GetDocuments(ctx, stringArg(args, "collection_name"), limit, stringArg(args, "offset"))
	if err != nil {
		return nil, err
	}

	docs := make([]map[string]any, len(page.Documents))
	for i, doc := range page.Documents {
		docs[i] = map[string]any{
			"id":      doc.ID,
			"payload": doc.Payload,
		}
	}

	result := map[string]any{"documents": docs}
	if page.NextOffset != "" {
		result["next_offset"] = page.NextOffset
	}
	return result, nil
}
