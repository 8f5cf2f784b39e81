// Package memory provides an in-memory backend with naive lexical scoring.
// It needs no external services, which makes it the backend of choice for
// tests and local experimentation; it is not meant for real corpora.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.Backend = (*Backend)(nil)

type storedDoc struct {
	id      string
	payload map[string]any
}

// Backend keeps collections in process memory and ranks search results by
// query-term overlap. It counts backend calls so tests can assert that
// rejected dispatches never touch the backend.
type Backend struct {
	mu          sync.Mutex
	collections map[string][]storedDoc
	calls       int
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{
		collections: make(map[string][]storedDoc),
	}
}

// BackendType returns the type key this backend registers under.
func (b *Backend) BackendType() string {
	return "memory"
}

// Connect is a no-op for the in-memory backend.
func (b *Backend) Connect(_ context.Context) error {
	return nil
}

// Close releases resources.
func (b *Backend) Close() error {
	return nil
}

// Calls returns the number of backend operations performed.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Seed inserts payloads directly into a collection, bypassing call counting.
func (b *Backend) Seed(collection string, payloads ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, payload := range payloads {
		b.collections[collection] = append(b.collections[collection], storedDoc{
			id:      uuid.New().String(),
			payload: payload,
		})
	}
}

// Search ranks documents by the fraction of query terms found in their text.
func (b *Backend) Search(_ context.Context, collection, query string, limit int) ([]driven.SearchHit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	docs, ok := b.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q not found", collection)
	}

	terms := strings.Fields(strings.ToLower(query))
	hits := make([]driven.SearchHit, 0, len(docs))
	for _, doc := range docs {
		score := overlapScore(docText(doc.payload), terms)
		if score == 0 {
			continue
		}
		hits = append(hits, driven.SearchHit{ID: doc.id, Score: score, Payload: doc.payload})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// ListCollections returns the names of all collections, sorted.
func (b *Backend) ListCollections(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	names := make([]string, 0, len(b.collections))
	for name := range b.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetDocuments pages through a collection using a numeric string offset.
func (b *Backend) GetDocuments(_ context.Context, collection string, limit int, offset string) (*driven.DocumentPage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	docs, ok := b.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q not found", collection)
	}

	start := 0
	if offset != "" {
		parsed, err := strconv.Atoi(offset)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q", offset)
		}
		start = parsed
	}
	if start > len(docs) {
		start = len(docs)
	}
	end := start + limit
	if limit <= 0 || end > len(docs) {
		end = len(docs)
	}

	page := &driven.DocumentPage{}
	for _, doc := range docs[start:end] {
		page.Documents = append(page.Documents, driven.StoredDocument{ID: doc.id, Payload: doc.payload})
	}
	if end < len(docs) {
		page.NextOffset = strconv.Itoa(end)
	}
	return page, nil
}

// DeleteCollection removes a collection. Deleting an unknown collection is
// a backend error, not a silent no-op.
func (b *Backend) DeleteCollection(_ context.Context, collection string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	if _, ok := b.collections[collection]; !ok {
		return false, fmt.Errorf("collection %q not found", collection)
	}
	delete(b.collections, collection)
	return true, nil
}

// AddDocuments stores documents with deterministic content-derived IDs, so
// re-adding the same text overwrites rather than duplicates.
func (b *Backend) AddDocuments(_ context.Context, collection string, docs []driven.BackendDocument) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	for _, doc := range docs {
		id := uuid.NewMD5(uuid.NameSpaceOID, []byte(doc.Text)).String()
		payload := map[string]any{"text": doc.Text}
		if doc.Metadata != nil {
			payload["metadata"] = doc.Metadata
		}

		replaced := false
		for i, existing := range b.collections[collection] {
			if existing.id == id {
				b.collections[collection][i] = storedDoc{id: id, payload: payload}
				replaced = true
				break
			}
		}
		if !replaced {
			b.collections[collection] = append(b.collections[collection], storedDoc{id: id, payload: payload})
		}
	}
	return len(docs), nil
}

// docText pulls the searchable text out of a payload.
func docText(payload map[string]any) string {
	for _, key := range []string{"text", "content"} {
		if v, ok := payload[key].(string); ok {
			return v
		}
	}
	return ""
}

// overlapScore is the fraction of query terms present in the text.
func overlapScore(text string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
