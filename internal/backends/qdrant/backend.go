// Package qdrant provides the Qdrant server backend.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/storage/qdrant"
)

// Connection retry policy. Qdrant is typically a sibling container that
// may come up after the server process.
const (
	MaxConnectRetries = 30
	RetryDelay        = 2 * time.Second
)

// DefaultBatchSize caps texts per embedding/upsert batch.
const DefaultBatchSize = 32

// Ensure Backend implements the interface.
var _ driven.Backend = (*Backend)(nil)

// Backend serves tool operations against a Qdrant instance, generating
// query and document embeddings through the configured embedding service.
type Backend struct {
	client    *qdrant.Client
	service   driven.EmbeddingService
	batchSize int
}

// New creates a Qdrant backend over a client and embedding service.
func New(client *qdrant.Client, service driven.EmbeddingService, batchSize int) *Backend {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Backend{
		client:    client,
		service:   service,
		batchSize: batchSize,
	}
}

// BackendType returns the type key this backend registers under.
func (b *Backend) BackendType() string {
	return "qdrant"
}

// Connect probes the instance, retrying until it responds or the retry
// budget is exhausted. Cancelling the context stops the wait early.
func (b *Backend) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= MaxConnectRetries; attempt++ {
		lastErr = b.client.Health(ctx)
		if lastErr == nil {
			logger.Info("Connected to Qdrant at %s", b.client.BaseURL())
			return nil
		}
		if attempt == MaxConnectRetries {
			break
		}
		logger.Warn("Connection attempt %d/%d failed: %v. Retrying in %s...",
			attempt, MaxConnectRetries, lastErr, RetryDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryDelay):
		}
	}
	return fmt.Errorf("failed to connect to Qdrant at %s after %d attempts: %w",
		b.client.BaseURL(), MaxConnectRetries, lastErr)
}

// Search embeds the query and returns the closest documents.
func (b *Backend) Search(ctx context.Context, collection, query string, limit int) ([]driven.SearchHit, error) {
	vector, err := b.service.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	points, err := b.client.Search(ctx, collection, vector, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.SearchHit, len(points))
	for i, p := range points {
		hits[i] = driven.SearchHit{ID: p.ID, Score: p.Score, Payload: p.Payload}
	}
	return hits, nil
}

// ListCollections returns the names of all collections.
func (b *Backend) ListCollections(ctx context.Context) ([]string, error) {
	return b.client.ListCollections(ctx)
}

// GetDocuments retrieves a page of documents using Qdrant's scroll API.
func (b *Backend) GetDocuments(ctx context.Context, collection string, limit int, offset string) (*driven.DocumentPage, error) {
	records, next, err := b.client.Scroll(ctx, collection, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &driven.DocumentPage{NextOffset: next}
	for _, record := range records {
		page.Documents = append(page.Documents, driven.StoredDocument{ID: record.ID, Payload: record.Payload})
	}
	return page, nil
}

// DeleteCollection removes an entire collection.
func (b *Backend) DeleteCollection(ctx context.Context, collection string) (bool, error) {
	deleted, err := b.client.DeleteCollection(ctx, collection)
	if err != nil {
		return false, err
	}
	logger.Info("Deleted collection %q", collection)
	return deleted, nil
}

// AddDocuments embeds and upserts documents in batches. IDs derive from
// the document text, so adding identical text twice stores one point.
func (b *Backend) AddDocuments(ctx context.Context, collection string, docs []driven.BackendDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	if err := b.client.EnsureCollection(ctx, collection, b.service.Dimensions()); err != nil {
		return 0, fmt.Errorf("ensuring collection %q: %w", collection, err)
	}

	stored := 0
	for start := 0; start < len(docs); start += b.batchSize {
		end := start + b.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Text
		}
		vectors, err := b.service.EmbedBatch(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("embedding batch: %w", err)
		}

		points := make([]qdrant.Point, len(batch))
		for i, doc := range batch {
			metadata := doc.Metadata
			if metadata == nil {
				metadata = map[string]any{}
			}
			points[i] = qdrant.Point{
				ID:     uuid.NewMD5(uuid.NameSpaceOID, []byte(doc.Text)).String(),
				Vector: vectors[i],
				Payload: map[string]any{
					"text":     doc.Text,
					"metadata": metadata,
				},
			}
		}
		if err := b.client.Upsert(ctx, collection, points); err != nil {
			return stored, fmt.Errorf("upserting batch: %w", err)
		}
		stored = end
	}

	logger.Info("Stored %d documents in %q", stored, collection)
	return stored, nil
}

// Close releases the embedding service.
func (b *Backend) Close() error {
	return b.service.Close()
}
