// Package qdrant provides the embedder that stores documents in Qdrant.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/storage/qdrant"
)

// DefaultBatchSize is the upsert batch size when none is configured.
const DefaultBatchSize = 32

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Embedder stores embedded documents as Qdrant points. Point IDs are
// derived from the document source (and chunk index for chunked documents),
// so re-ingesting a source updates it in place instead of duplicating it.
type Embedder struct {
	service   driven.EmbeddingService
	client    *qdrant.Client
	batchSize int
}

// New creates a Qdrant embedder over an embedding service and client.
func New(service driven.EmbeddingService, client *qdrant.Client, batchSize int) *Embedder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Embedder{
		service:   service,
		client:    client,
		batchSize: batchSize,
	}
}

// StoreType returns the type key this embedder registers under.
func (e *Embedder) StoreType() string {
	return "qdrant"
}

// Embed generates a vector embedding for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.service.Embed(ctx, text)
}

// Store upserts embedded documents into a collection, creating it on first
// use. Upserts happen in batches; a mid-batch failure returns the count
// stored so far alongside the error.
func (e *Embedder) Store(ctx context.Context, docs []driven.EmbeddedDocument, collection string) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	if err := e.client.EnsureCollection(ctx, collection, e.service.Dimensions()); err != nil {
		return 0, fmt.Errorf("ensuring collection %q: %w", collection, err)
	}

	points := make([]qdrant.Point, len(docs))
	for i, doc := range docs {
		points[i] = qdrant.Point{
			ID:      PointID(doc.Document),
			Vector:  doc.Vector,
			Payload: payloadFor(doc.Document),
		}
	}

	stored := 0
	for start := 0; start < len(points); start += e.batchSize {
		end := start + e.batchSize
		if end > len(points) {
			end = len(points)
		}
		if err := e.client.Upsert(ctx, collection, points[start:end]); err != nil {
			return stored, fmt.Errorf("upserting batch: %w", err)
		}
		stored = end
		logger.Debug("Stored %d/%d documents in %q", stored, len(points), collection)
	}

	return stored, nil
}

// PointID derives a deterministic UUID from a document's source. Chunked
// documents include their chunk index so siblings get distinct points.
func PointID(doc domain.Document) string {
	key := doc.Source
	if index, ok := doc.ChunkIndex(); ok {
		key = fmt.Sprintf("%s#%d", doc.Source, index)
	}
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(key)).String()
}

// payloadFor flattens a document into the stored point payload.
func payloadFor(doc domain.Document) map[string]any {
	return map[string]any{
		"source":      doc.Source,
		"title":       doc.Title,
		"content":     doc.Content,
		"metadata":    doc.Metadata,
		"timestamp":   doc.Timestamp.UTC().Format(time.RFC3339),
		"source_type": doc.SourceType,
	}
}
