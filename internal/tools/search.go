package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// DefaultSearchLimit caps results when the caller does not pass a limit.
const DefaultSearchLimit = 10

// Ensure Search implements the interface.
var _ driven.Tool = (*Search)(nil)

// Search finds documents by semantic similarity in one collection.
type Search struct{}

// NewSearch creates the search tool.
func NewSearch() *Search {
	return &Search{}
}

// Name returns the tool name used for registration and dispatch.
func (t *Search) Name() string {
	return "search"
}

// Description returns the human-readable tool description.
func (t *Search) Description() string {
	return "Search for documents by semantic similarity in a collection"
}

// InputSchema returns the JSON Schema for the tool's arguments.
func (t *Search) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"collection_name": {
				Type:        "string",
				Description: "Name of the collection to search",
			},
			"query": {
				Type:        "string",
				Description: "Search query text",
			},
			"limit": {
				Type:        "integer",
				Description: "Maximum number of results to return (default 10)",
			},
		},
		Required: []string{"collection_name", "query"},
	}
}

// Execute runs the similarity search against the backend.
func (t *Search) Execute(ctx context.Context, backend driven.Backend, args map[string]any) (map[string]any, error) {
	limit := intArg(args, "limit", DefaultSearchLimit)
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	hits, err := backend.Search(ctx, stringArg(args, "collection_name"), stringArg(args, "query"), limit)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, len(hits))
	for i, hit := range hits {
		results[i] = map[string]any{
			"id":      hit.ID,
			"score":   hit.Score,
			"payload": hit.Payload,
		}
	}

	return map[string]any{
		"results": results,
		"count":   len(results),
	}, nil
}
