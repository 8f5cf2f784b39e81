package driven

import (
	"context"

	"github.com/custodia-labs/quarry/internal/core/domain"
)

// Chunker splits a document into retrieval-sized child documents.
// Children carry chunk_index/total_chunks metadata consistent with their
// siblings; the parent document is never modified.
type Chunker interface {
	// ChunkerType returns the type key this chunker registers under.
	ChunkerType() string

	// Chunk returns the ordered child documents derived from doc.
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Document, error)
}
