// Package sqlite provides the local SQLite server backend.
package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/storage/sqlite"
)

// Ensure Backend implements the interface.
var _ driven.Backend = (*Backend)(nil)

// Backend serves tool operations from a local SQLite vector store. It needs
// no running database service, which suits single-machine deployments.
type Backend struct {
	store   *sqlite.Store
	service driven.EmbeddingService
}

// New creates a SQLite backend over a store and embedding service.
func New(store *sqlite.Store, service driven.EmbeddingService) *Backend {
	return &Backend{
		store:   store,
		service: service,
	}
}

// BackendType returns the type key this backend registers under.
func (b *Backend) BackendType() string {
	return "sqlite"
}

// Connect verifies the embedding service is reachable. The store itself was
// opened during construction.
func (b *Backend) Connect(ctx context.Context) error {
	if err := b.service.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service unavailable: %w", err)
	}
	logger.Info("SQLite backend ready at %s", b.store.Path())
	return nil
}

// Search embeds the query and returns the closest documents.
func (b *Backend) Search(ctx context.Context, collection, query string, limit int) ([]driven.SearchHit, error) {
	vector, err := b.service.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	scored, err := b.store.Search(ctx, collection, vector, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.SearchHit, len(scored))
	for i, s := range scored {
		hits[i] = driven.SearchHit{ID: s.ID, Score: s.Score, Payload: s.Payload}
	}
	return hits, nil
}

// ListCollections returns the names of all collections.
func (b *Backend) ListCollections(ctx context.Context) ([]string, error) {
	return b.store.Collections(ctx)
}

// GetDocuments retrieves a page of documents from a collection.
func (b *Backend) GetDocuments(ctx context.Context, collection string, limit int, offset string) (*driven.DocumentPage, error) {
	records, next, err := b.store.GetPage(ctx, collection, limit, offset)
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
	return b.store.DeleteCollection(ctx, collection)
}

// AddDocuments embeds and stores documents with text-derived IDs.
func (b *Backend) AddDocuments(ctx context.Context, collection string, docs []driven.BackendDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := b.service.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding documents: %w", err)
	}

	records := make([]sqlite.Record, len(docs))
	for i, doc := range docs {
		metadata := doc.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		records[i] = sqlite.Record{
			ID: uuid.NewMD5(uuid.NameSpaceOID, []byte(doc.Text)).String(),
			Payload: map[string]any{
				"text":     doc.Text,
				"metadata": metadata,
			},
			Embedding: vectors[i],
		}
	}

	if err := b.store.Upsert(ctx, collection, records); err != nil {
		return 0, fmt.Errorf("storing documents: %w", err)
	}
	return len(records), nil
}

// Close releases the store and the embedding service.
func (b *Backend) Close() error {
	if err := b.store.Close(); err != nil {
		return err
	}
	return b.service.Close()
}
