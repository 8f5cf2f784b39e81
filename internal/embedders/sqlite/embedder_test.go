package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	qdrantembed "github.com/custodia-labs/quarry/internal/embedders/qdrant"
	"github.com/custodia-labs/quarry/internal/storage/sqlite"
)

func newTestEmbedder(t *testing.T) (*Embedder, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "quarry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(nil, store), store
}

func embeddedDoc(source, content string) driven.EmbeddedDocument {
	return driven.EmbeddedDocument{
		Document: domain.Document{
			Source:     source,
			Title:      "Title",
			Content:    content,
			Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			SourceType: "html",
		},
		Vector: []float32{0.1, 0.2},
	}
}

func TestStoreType(t *testing.T) {
	embedder, _ := newTestEmbedder(t)
	assert.Equal(t, "sqlite", embedder.StoreType())
}

func TestStore_PersistsDocuments(t *testing.T) {
	embedder, store := newTestEmbedder(t)
	ctx := context.Background()

	docs := []driven.EmbeddedDocument{
		embeddedDoc("https://example.com/a", "first"),
		embeddedDoc("https://example.com/b", "second"),
	}

	count, err := embedder.Store(ctx, docs, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, next, err := store.GetPage(ctx, "docs", 10, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, records, 2)
	assert.Equal(t, qdrantembed.PointID(docs[0].Document), records[0].ID)
	assert.Equal(t, "https://example.com/a", records[0].Payload["source"])
	assert.Equal(t, "first", records[0].Payload["content"])
	assert.Equal(t, "html", records[0].Payload["source_type"])
}

func TestStore_SameSourceUpserts(t *testing.T) {
	embedder, store := newTestEmbedder(t)
	ctx := context.Background()

	doc := embeddedDoc("https://example.com/a", "first version")
	_, err := embedder.Store(ctx, []driven.EmbeddedDocument{doc}, "docs")
	require.NoError(t, err)

	doc.Document.Content = "second version"
	_, err = embedder.Store(ctx, []driven.EmbeddedDocument{doc}, "docs")
	require.NoError(t, err)

	records, _, err := store.GetPage(ctx, "docs", 10, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "second version", records[0].Payload["content"])
}

func TestStore_EmptyBatch(t *testing.T) {
	embedder, _ := newTestEmbedder(t)

	count, err := embedder.Store(context.Background(), nil, "docs")

	require.NoError(t, err)
	assert.Zero(t, count)
}
