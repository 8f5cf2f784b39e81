package driven

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool is an agent-facing named operation executed against a backend.
// Arguments are validated against the declared input schema before Execute
// is called; Execute never sees unvalidated input.
type Tool interface {
	// Name returns the tool name used for registration and dispatch.
	Name() string

	// Description returns the human-readable tool description.
	Description() string

	// InputSchema returns the JSON Schema for the tool's arguments.
	InputSchema() *jsonschema.Schema

	// Execute runs the tool against the backend with validated arguments
	// and returns a result mapping.
	Execute(ctx context.Context, backend Backend, args map[string]any) (map[string]any, error)
}
