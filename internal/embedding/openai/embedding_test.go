package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg Config, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", server.URL)

	service, err := NewEmbeddingService(cfg)
	require.NoError(t, err)
	return service
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewEmbeddingService(Config{})

	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestEmbedBatch_SendsModelAndAuth(t *testing.T) {
	var gotAuth string
	var gotReq embeddingRequest
	service := newTestService(t, Config{Dimensions: 256}, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float64{0.1, 0.2}, "index": 0},
			{"embedding": []float64{0.3, 0.4}, "index": 1},
		}}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	vectors, err := service.EmbedBatch(context.Background(), []string{"one", "two"})

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, 256, gotReq.Dimensions)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestEmbedBatch_OrdersByResponseIndex(t *testing.T) {
	service := newTestService(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		// Out-of-order response entries still land at their index.
		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float64{2}, "index": 1},
			{"embedding": []float64{1}, "index": 0},
		}}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	vectors, err := service.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vectors[0])
	assert.Equal(t, []float32{2}, vectors[1])
}

func TestEmbedBatch_OmitsDimensionsForAda(t *testing.T) {
	var gotReq embeddingRequest
	service := newTestService(t, Config{Model: "text-embedding-ada-002"}, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := map[string]any{"data": []map[string]any{{"embedding": []float64{0.5}, "index": 0}}}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	_, err := service.Embed(context.Background(), "text")

	require.NoError(t, err)
	assert.Zero(t, gotReq.Dimensions)
	assert.Equal(t, 1536, service.Dimensions())
}

func TestEmbedBatch_SurfacesAPIError(t *testing.T) {
	service := newTestService(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
	})

	_, err := service.EmbedBatch(context.Background(), []string{"text"})

	assert.ErrorContains(t, err, "Incorrect API key provided")
}

func TestPing_FailsOnBadStatus(t *testing.T) {
	service := newTestService(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := service.Ping(context.Background())

	assert.ErrorContains(t, err, "status 401")
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	service := newTestService(t, Config{}, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for an empty batch")
	})

	vectors, err := service.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vectors)
}
