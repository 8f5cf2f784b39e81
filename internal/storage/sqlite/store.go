// Package sqlite provides a local vector store backed by a single SQLite
// database file. Embeddings are stored as binary blobs and similarity is
// computed in process, which keeps small corpora fully self-contained.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/quarry/internal/storage/sqlite/migrations"
)

// Record is one stored document with its embedding.
type Record struct {
	ID        string
	Payload   map[string]any
	Embedding []float32
}

// Scored is one ranked result from a similarity search.
type Scored struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// Store is a SQLite-backed vector store. A single database file holds all
// collections; rows are keyed by (collection, id) so re-upserting the same
// ID replaces the previous document.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store at the given database path. If path is empty,
// defaults to ~/.quarry/data/quarry.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".quarry", "data", "quarry.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores records in a collection, replacing any existing rows with
// the same ID.
func (s *Store) Upsert(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, collection, payload, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			payload = excluded.payload,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		payloadJSON, err := json.Marshal(record.Payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}
		blob := float32SliceToBytes(record.Embedding)
		if _, err := stmt.ExecContext(ctx, record.ID, collection, string(payloadJSON), blob); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search ranks a collection's documents by cosine similarity to the query
// vector. The scan is linear; adequate for local corpora.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, limit int) ([]Scored, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload, embedding FROM documents WHERE collection = ?
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var hits []Scored //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id, payloadJSON string
		var blob []byte
		if err := rows.Scan(&id, &payloadJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		embedding := bytesToFloat32Slice(blob)
		score := cosineSimilarity(vector, embedding)

		var payload map[string]any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return nil, fmt.Errorf("unmarshaling payload: %w", err)
		}
		hits = append(hits, Scored{ID: id, Score: score, Payload: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Collections returns the names of all collections with at least one document.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT collection FROM documents ORDER BY collection
	`)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return names, nil
}

// GetPage retrieves a page of a collection's documents in insertion order.
// The offset is a numeric string from a previous page; the returned offset
// is empty once the collection is exhausted.
func (s *Store) GetPage(ctx context.Context, collection string, limit int, offset string) ([]Record, string, error) {
	start := 0
	if offset != "" {
		parsed, err := strconv.Atoi(offset)
		if err != nil {
			return nil, "", fmt.Errorf("invalid offset %q", offset)
		}
		start = parsed
	}

	// Fetch one extra row to learn whether another page exists.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload FROM documents
		WHERE collection = ?
		ORDER BY rowid
		LIMIT ? OFFSET ?
	`, collection, limit+1, start)
	if err != nil {
		return nil, "", fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var records []Record //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id, payloadJSON string
		if err := rows.Scan(&id, &payloadJSON); err != nil {
			return nil, "", fmt.Errorf("scanning document: %w", err)
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return nil, "", fmt.Errorf("unmarshaling payload: %w", err)
		}
		records = append(records, Record{ID: id, Payload: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating documents: %w", err)
	}

	next := ""
	if len(records) > limit {
		records = records[:limit]
		next = strconv.Itoa(start + limit)
	}
	return records, next, nil
}

// DeleteCollection removes all documents in a collection, reporting whether
// anything was deleted.
func (s *Store) DeleteCollection(ctx context.Context, collection string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", collection)
	if err != nil {
		return false, fmt.Errorf("deleting collection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has no magnitude or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
