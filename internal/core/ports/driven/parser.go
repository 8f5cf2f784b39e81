package driven

import (
	"context"

	"github.com/custodia-labs/quarry/internal/core/domain"
)

// Parser fetches raw content from a source and converts it into a Document.
// Each parser handles one source type (e.g. "html", "md", "txt").
type Parser interface {
	// SourceType returns the type key this parser registers under.
	SourceType() string

	// Fetch retrieves raw content from a source identifier.
	Fetch(ctx context.Context, source string) ([]byte, error)

	// Parse converts raw content into a document. The returned document's
	// Content is always text and its Timestamp is set at parse time.
	Parse(ctx context.Context, content []byte, source string) (*domain.Document, error)
}
