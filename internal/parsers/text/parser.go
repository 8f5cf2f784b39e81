// Package text provides the parser for plain text files.
package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser reads local plain text files as-is.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// SourceType returns the type key this parser registers under.
func (p *Parser) SourceType() string {
	return "txt"
}

// Fetch reads a local file.
func (p *Parser) Fetch(_ context.Context, source string) ([]byte, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

// Parse wraps the text in a document without transforming it.
func (p *Parser) Parse(_ context.Context, content []byte, source string) (*domain.Document, error) {
	if len(content) == 0 {
		return nil, domain.ErrInvalidInput
	}

	text := strings.TrimSpace(string(content))

	return &domain.Document{
		Source:  source,
		Title:   extractTitle(source),
		Content: text,
		Metadata: map[string]any{
			"format":         "text",
			"content_length": len(text),
		},
		Timestamp:  time.Now().UTC(),
		SourceType: p.SourceType(),
	}, nil
}

// extractTitle extracts a human-readable title from a file path.
func extractTitle(source string) string {
	filename := filepath.Base(source)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
