package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/storage/qdrant"
)

// stubService returns a constant vector for any text.
type stubService struct{}

func (stubService) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.5, 0.5}, nil
}

func (stubService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.5, 0.5}
	}
	return out, nil
}

func (stubService) Dimensions() int            { return 2 }
func (stubService) ModelName() string          { return "stub" }
func (stubService) Ping(context.Context) error { return nil }
func (stubService) Close() error               { return nil }

var _ driven.EmbeddingService = stubService{}

func emptyCollections(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"result": map[string]any{"collections": []map[string]any{}},
	})
}

func TestConnectSucceedsWhenReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(emptyCollections))
	defer server.Close()

	backend := New(qdrant.New(server.URL, ""), stubService{}, 0)

	assert.NoError(t, backend.Connect(context.Background()))
}

func TestConnectHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "starting up", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	backend := New(qdrant.New(server.URL, ""), stubService{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := backend.Connect(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchEmbedsQuery(t *testing.T) {
	var searchBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/docs/points/search", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&searchBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"id": "a", "score": 0.8, "payload": map[string]any{"text": "match"}},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	backend := New(qdrant.New(server.URL, ""), stubService{}, 0)
	hits, err := backend.Search(context.Background(), "docs", "query text", 5)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, []any{0.5, 0.5}, searchBody["vector"])
	assert.Equal(t, float64(5), searchBody["limit"])
}

func TestAddDocumentsDerivesIDsFromText(t *testing.T) {
	var points []map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections", emptyCollections)
	mux.HandleFunc("PUT /collections/docs", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": true})
	})
	mux.HandleFunc("PUT /collections/docs/points", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Points []map[string]any `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		points = append(points, body.Points...)
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"status": "acknowledged"}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	backend := New(qdrant.New(server.URL, ""), stubService{}, 2)
	count, err := backend.AddDocuments(context.Background(), "docs", []driven.BackendDocument{
		{Text: "same"},
		{Text: "other"},
		{Text: "same"},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, points, 3)
	assert.Equal(t, points[0]["id"], points[2]["id"])
	assert.NotEqual(t, points[0]["id"], points[1]["id"])
}

func TestGetDocumentsMapsScroll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/docs/points/scroll", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"points": []map[string]any{
					{"id": "a", "payload": map[string]any{"text": "one"}},
				},
				"next_page_offset": "b",
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	backend := New(qdrant.New(server.URL, ""), stubService{}, 0)
	page, err := backend.GetDocuments(context.Background(), "docs", 1, "")

	require.NoError(t, err)
	require.Len(t, page.Documents, 1)
	assert.Equal(t, "a", page.Documents[0].ID)
	assert.Equal(t, "b", page.NextOffset)
}
