// Package qdrant is a minimal REST client for the Qdrant vector database.
// It covers the operations the embedder and server backend need; it is not
// a general purpose SDK.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds individual HTTP requests to Qdrant.
const DefaultTimeout = 15 * time.Second

// Point is one vector with its payload, addressed by a UUID.
type Point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// ScoredPoint is one ranked result from a vector search.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// Record is one point returned by a scroll, without its vector.
type Record struct {
	ID      string
	Payload map[string]any
}

// Client talks to a single Qdrant instance over its REST API.
// It assumes cosine distance for every collection it creates.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:6333".
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// NewFromEnv builds a client from environment variables. QDRANT_HOST and
// QDRANT_PORT take precedence, with VECTOR_DB_HOST and VECTOR_DB_PORT as
// fallbacks; both default to localhost:6333. QDRANT_API_KEY is optional.
func NewFromEnv() *Client {
	host := firstEnv("QDRANT_HOST", "VECTOR_DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := firstEnv("QDRANT_PORT", "VECTOR_DB_PORT")
	if port == "" {
		port = "6333"
	}
	return New(fmt.Sprintf("http://%s:%s", host, port), os.Getenv("QDRANT_API_KEY"))
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// BaseURL returns the instance URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes the instance by listing collections.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.ListCollections(ctx)
	return err
}

// ListCollections returns the names of all collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Result.Collections))
	for i, col := range resp.Result.Collections {
		names[i] = col.Name
	}
	return names, nil
}

// EnsureCollection creates a cosine-distance collection with the given
// vector size if it does not already exist.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	names, err := c.ListCollections(ctx)
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	return c.do(ctx, http.MethodPut, "/collections/"+name, body, nil)
}

// Upsert writes points to a collection, waiting for the operation to land.
func (c *Client) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	return c.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body, nil)
}

// Search returns up to limit points ranked by similarity to the vector.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body, &resp); err != nil {
		return nil, err
	}
	hits := make([]ScoredPoint, len(resp.Result))
	for i, r := range resp.Result {
		hits[i] = ScoredPoint{ID: idString(r.ID), Score: r.Score, Payload: r.Payload}
	}
	return hits, nil
}

// Scroll retrieves a page of points without their vectors. A non-empty
// offset resumes from a previous page; the returned offset is empty when
// the collection is exhausted.
func (c *Client) Scroll(ctx context.Context, collection string, limit int, offset string) ([]Record, string, error) {
	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	if offset != "" {
		body["offset"] = offset
	}
	var resp struct {
		Result struct {
			Points []struct {
				ID      any            `json:"id"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
			NextPageOffset any `json:"next_page_offset"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/scroll", body, &resp); err != nil {
		return nil, "", err
	}
	records := make([]Record, len(resp.Result.Points))
	for i, p := range resp.Result.Points {
		records[i] = Record{ID: idString(p.ID), Payload: p.Payload}
	}
	next := ""
	if resp.Result.NextPageOffset != nil {
		next = idString(resp.Result.NextPageOffset)
	}
	return records, next, nil
}

// DeleteCollection drops a collection. Qdrant reports whether anything
// was actually removed.
func (c *Client) DeleteCollection(ctx context.Context, name string) (bool, error) {
	var resp struct {
		Result bool `json:"result"`
	}
	if err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

// idString renders a point ID, which Qdrant may return as string or number.
func idString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding qdrant request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
