package driven

import (
	"context"

	"github.com/custodia-labs/quarry/internal/core/domain"
)

// EmbeddedDocument pairs a document with its embedding vector.
type EmbeddedDocument struct {
	Document domain.Document
	Vector   []float32
}

// Embedder generates vector embeddings and persists embedded documents into
// a named collection of a vector store. Each embedder handles one store type
// (e.g. "qdrant", "sqlite").
type Embedder interface {
	// StoreType returns the type key this embedder registers under.
	StoreType() string

	// Embed generates a fixed-dimensionality vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Store persists embedded documents into a collection and returns the
	// number actually stored. A partial store returns the count stored so
	// far alongside the error.
	Store(ctx context.Context, docs []EmbeddedDocument, collection string) (int, error)
}
