package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// Ensure AddDocuments implements the interface.
var _ driven.Tool = (*AddDocuments)(nil)

// AddDocuments inserts documents with text and optional metadata into a
// collection, embedding them on the backend.
type AddDocuments struct{}

// NewAddDocuments creates the add_documents tool.
func NewAddDocuments() *AddDocuments {
	return &AddDocuments{}
}

// Name returns the tool name used for registration and dispatch.
func (t *AddDocuments) Name() string {
	return "add_documents"
}

// Description returns the human-readable tool description.
func (t *AddDocuments) Description() string {
	return "Add documents to a collection. Each document should have 'text' and optionally 'metadata'"
}

// InputSchema returns the JSON Schema for the tool's arguments.
func (t *AddDocuments) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"collection_name": {
				Type:        "string",
				Description: "Name of the collection",
			},
			"documents": {
				Type:        "array",
				Description: "List of documents to add",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"text": {
							Type:        "string",
							Description: "Document text content",
						},
						"metadata": {
							Type:        "object",
							Description: "Optional metadata",
						},
					},
					Required: []string{"text"},
				},
			},
		},
		Required: []string{"collection_name", "documents"},
	}
}

// Execute adds the documents through the backend.
func (t *AddDocuments) Execute(ctx context.Context, backend driven.Backend, args map[string]any) (map[string]any, error) {
	raw, ok := args["documents"].([]any)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	docs := make([]driven.BackendDocument, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc := driven.BackendDocument{Text: stringArg(entry, "text")}
		if meta, ok := entry["metadata"].(map[string]any); ok {
			doc.Metadata = meta
		}
		docs = append(docs, doc)
	}

	count, err := backend.AddDocuments(ctx, stringArg(args, "collection_name"), docs)
	if err != nil {
		return nil, err
	}
	return map[string]any{"stored_count": count}, nil
}
