// Package markdown provides the parser for Markdown files.
package markdown

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// DefaultTimeout bounds one remote fetch.
const DefaultTimeout = 30 * time.Second

// Config holds behavioural configuration for the Markdown parser.
type Config struct {
	// Timeout bounds one remote fetch (default: 30s).
	Timeout time.Duration
}

// Parser reads Markdown from local files or URLs and converts it to plain
// text.
type Parser struct {
	client *http.Client
}

// New creates a new Markdown parser.
func New(cfg Config) *Parser {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Parser{
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// SourceType returns the type key this parser registers under.
func (p *Parser) SourceType() string {
	return "md"
}

// Fetch reads a Markdown source. HTTP(S) sources are fetched remotely,
// anything else is treated as a local file path.
func (p *Parser) Fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("creating request for %s: %w", source, err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching %s: status %s", source, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

// Parse converts Markdown to a document. The Content field contains the
// text with markdown formatting simplified.
func (p *Parser) Parse(_ context.Context, content []byte, source string) (*domain.Document, error) {
	if len(content) == 0 {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(content)
	text := stripMarkdown(rawContent)

	return &domain.Document{
		Source:  source,
		Title:   extractMarkdownTitle(rawContent, source),
		Content: text,
		Metadata: map[string]any{
			"format":         "markdown",
			"content_length": len(text),
		},
		Timestamp:  time.Now().UTC(),
		SourceType: p.SourceType(),
	}, nil
}

// extractMarkdownTitle extracts a title from the first H1 heading or falls
// back to the filename.
func extractMarkdownTitle(content, source string) string {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	filename := filepath.Base(source)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// stripMarkdown removes common markdown formatting for plain text content.
// This is a simplified implementation that handles common cases.
func stripMarkdown(content string) string {
	// Remove code blocks (```...```)
	codeBlock := regexp.MustCompile("(?s)```[^`]*```")
	content = codeBlock.ReplaceAllString(content, "")

	// Remove inline code (`code`)
	inlineCode := regexp.MustCompile("`[^`]+`")
	content = inlineCode.ReplaceAllString(content, "")

	// Remove images ![alt](url)
	images := regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	content = images.ReplaceAllString(content, "")

	// Convert links [text](url) to just text
	links := regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	content = links.ReplaceAllString(content, "$1")

	// Remove heading markers (# ## ### etc)
	headings := regexp.MustCompile(`(?m)^#{1,6}\s+`)
	content = headings.ReplaceAllString(content, "")

	// Remove bold/italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	// Remove blockquote markers
	blockquote := regexp.MustCompile(`(?m)^>\s*`)
	content = blockquote.ReplaceAllString(content, "")

	// Remove horizontal rules
	hr := regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	content = hr.ReplaceAllString(content, "")

	// Remove list markers (- * + and numbered)
	listMarkers := regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	content = listMarkers.ReplaceAllString(content, "")
	numberedList := regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	content = numberedList.ReplaceAllString(content, "")

	// Collapse multiple newlines
	multiNewlines := regexp.MustCompile(`\n{3,}`)
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
