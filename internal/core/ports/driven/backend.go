package driven

import "context"

// SearchHit is one ranked result from a backend similarity search.
type SearchHit struct {
	// ID is the backend identifier of the matched document.
	ID string

	// Score is the similarity score, higher is better.
	Score float64

	// Payload carries the stored document fields.
	Payload map[string]any
}

// StoredDocument is one document retrieved from a backend collection.
type StoredDocument struct {
	ID      string
	Payload map[string]any
}

// DocumentPage is a paginated slice of a collection's documents.
type DocumentPage struct {
	Documents []StoredDocument

	// NextOffset resumes pagination on a following request.
	// Empty when the collection is exhausted.
	NextOffset string
}

// BackendDocument is the input shape for adding documents through a backend.
type BackendDocument struct {
	// Text is the document content to embed and store.
	Text string

	// Metadata carries optional caller-supplied fields.
	Metadata map[string]any
}

// Backend adapts a concrete storage/search engine for use by tools.
// Implementations own their concurrency safety; the dispatcher shares a
// single backend instance across concurrent invocations.
type Backend interface {
	// BackendType returns the type key this backend registers under.
	BackendType() string

	// Connect establishes the connection to the engine.
	// Called once at startup, before any tool is dispatched.
	Connect(ctx context.Context) error

	// Search returns up to limit documents ranked by similarity to the query.
	Search(ctx context.Context, collection, query string, limit int) ([]SearchHit, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// GetDocuments retrieves a page of documents from a collection.
	GetDocuments(ctx context.Context, collection string, limit int, offset string) (*DocumentPage, error)

	// DeleteCollection removes an entire collection.
	DeleteCollection(ctx context.Context, collection string) (bool, error)

	// AddDocuments embeds and stores documents, returning the count stored.
	AddDocuments(ctx context.Context, collection string, docs []BackendDocument) (int, error)

	// Close releases resources.
	Close() error
}
