package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// stubParser fetches canned content and fails for sources listed in
// failFetch/failParse.
type stubParser struct {
	content   map[string]string
	failFetch map[string]bool
	failParse map[string]bool
}

func (p *stubParser) SourceType() string { return "html" }

func (p *stubParser) Fetch(_ context.Context, source string) ([]byte, error) {
	if p.failFetch[source] {
		return nil, errors.New("connection refused")
	}
	if content, ok := p.content[source]; ok {
		return []byte(content), nil
	}
	return []byte("<html>default</html>"), nil
}

func (p *stubParser) Parse(_ context.Context, content []byte, source string) (*domain.Document, error) {
	if p.failParse[source] {
		return nil, errors.New("malformed markup")
	}
	return &domain.Document{
		Source:     source,
		Title:      "Stub",
		Content:    string(content),
		Timestamp:  time.Now().UTC(),
		SourceType: "html",
	}, nil
}

// stubChunker splits content into fixed-size pieces, or fails on demand.
type stubChunker struct {
	size int
	fail bool
}

func (c *stubChunker) ChunkerType() string { return "fixed" }

func (c *stubChunker) Chunk(_ context.Context, doc *domain.Document) ([]domain.Document, error) {
	if c.fail {
		return nil, errors.New("chunker exploded")
	}
	var pieces []string
	for content := doc.Content; content != ""; {
		n := c.size
		if n > len(content) {
			n = len(content)
		}
		pieces = append(pieces, content[:n])
		content = content[n:]
	}
	chunks := make([]domain.Document, len(pieces))
	for i, piece := range pieces {
		chunks[i] = doc.Chunk(piece, i, len(pieces))
	}
	return chunks, nil
}

// stubEmbedder counts calls and fails embedding for texts containing a
// marker, or storing for collections listed in failStore.
type stubEmbedder struct {
	embedCalls  int
	storeCalls  int
	stored      []driven.EmbeddedDocument
	failMarker  string
	failStore   bool
	partialLeft int // when failing a store, how many made it in
}

func (e *stubEmbedder) StoreType() string { return "stub" }

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.embedCalls++
	if e.failMarker != "" && strings.Contains(text, e.failMarker) {
		return nil, errors.New("model unavailable")
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (e *stubEmbedder) Store(_ context.Context, docs []driven.EmbeddedDocument, _ string) (int, error) {
	e.storeCalls++
	if e.failStore {
		return e.partialLeft, fmt.Errorf("write timed out")
	}
	e.stored = append(e.stored, docs...)
	return len(docs), nil
}
