// Package sqlite provides the embedder that stores documents in the local
// SQLite vector store.
package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	qdrantembed "github.com/custodia-labs/quarry/internal/embedders/qdrant"
	"github.com/custodia-labs/quarry/internal/storage/sqlite"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Embedder stores embedded documents in a SQLite database file. It shares
// the deterministic ID scheme with the Qdrant embedder so a corpus can be
// moved between stores without duplication.
type Embedder struct {
	service driven.EmbeddingService
	store   *sqlite.Store
}

// New creates a SQLite embedder over an embedding service and store.
func New(service driven.EmbeddingService, store *sqlite.Store) *Embedder {
	return &Embedder{
		service: service,
		store:   store,
	}
}

// StoreType returns the type key this embedder registers under.
func (e *Embedder) StoreType() string {
	return "sqlite"
}

// Embed generates a vector embedding for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.service.Embed(ctx, text)
}

// Store upserts embedded documents into a collection.
func (e *Embedder) Store(ctx context.Context, docs []driven.EmbeddedDocument, collection string) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	records := make([]sqlite.Record, len(docs))
	for i, doc := range docs {
		records[i] = sqlite.Record{
			ID:        qdrantembed.PointID(doc.Document),
			Payload:   payloadFor(doc),
			Embedding: doc.Vector,
		}
	}

	if err := e.store.Upsert(ctx, collection, records); err != nil {
		return 0, fmt.Errorf("upserting documents: %w", err)
	}
	return len(records), nil
}

func payloadFor(doc driven.EmbeddedDocument) map[string]any {
	d := doc.Document
	return map[string]any{
		"source":      d.Source,
		"title":       d.Title,
		"content":     d.Content,
		"metadata":    d.Metadata,
		"timestamp":   d.Timestamp,
		"source_type": d.SourceType,
	}
}
