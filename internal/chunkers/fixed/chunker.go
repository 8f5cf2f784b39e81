// Package fixed provides a fixed-size text chunker.
package fixed

import (
	"context"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits document content into fixed-size chunks with overlap.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new fixed-size chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkerType returns the type key this chunker registers under.
func (c *Chunker) ChunkerType() string {
	return "fixed"
}

// Chunk splits the document content into overlapping slices. Each child
// carries its position and the sibling count in chunk metadata; a document
// with empty content yields no chunks.
func (c *Chunker) Chunk(_ context.Context, doc *domain.Document) ([]domain.Document, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if doc.Content == "" {
		return nil, nil
	}

	spans := c.spans(len(doc.Content))
	chunks := make([]domain.Document, len(spans))
	for i, span := range spans {
		chunks[i] = doc.Chunk(doc.Content[span[0]:span[1]], i, len(spans))
	}
	return chunks, nil
}

// spans computes the [start, end) slices for the given content length.
// Sibling metadata needs the total count up front, so slicing happens in
// a separate pass from document construction.
func (c *Chunker) spans(contentLen int) [][2]int {
	step := c.chunkSize - c.overlap
	spans := make([][2]int, 0, contentLen/step+1)

	for start := 0; start < contentLen; start += step {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}
		spans = append(spans, [2]int{start, end})

		// The tail is covered; a further span would sit entirely inside
		// this one. Also avoids an infinite loop when step <= 0.
		if end == contentLen || step <= 0 {
			break
		}
	}
	return spans
}
