package markdown

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry/internal/core/domain"
)

func TestSourceType(t *testing.T) {
	parser := New(Config{})
	assert.Equal(t, "md", parser.SourceType())
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\n\nbody"), 0600))

	parser := New(Config{})
	content, err := parser.Fetch(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, string(content), "# Notes")
}

func TestFetch_RemoteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# Remote\n\ncontent"))
	}))
	defer server.Close()

	parser := New(Config{})
	content, err := parser.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, string(content), "# Remote")
}

func TestFetch_MissingFile(t *testing.T) {
	parser := New(Config{})

	_, err := parser.Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.md"))

	assert.Error(t, err)
}

func TestParse_Success(t *testing.T) {
	parser := New(Config{})
	content := []byte("# My Title\n\nSome **bold** text with a [link](https://example.com).")

	doc, err := parser.Parse(context.Background(), content, "/docs/guide.md")

	require.NoError(t, err)
	assert.Equal(t, "My Title", doc.Title)
	assert.Contains(t, doc.Content, "Some bold text with a link.")
	assert.NotContains(t, doc.Content, "**")
	assert.NotContains(t, doc.Content, "https://example.com")
	assert.Equal(t, "md", doc.SourceType)
	assert.Equal(t, "markdown", doc.Metadata["format"])
}

func TestParse_EmptyContent(t *testing.T) {
	parser := New(Config{})

	doc, err := parser.Parse(context.Background(), nil, "/docs/empty.md")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, doc)
}

func TestParse_TitleFallsBackToFilename(t *testing.T) {
	parser := New(Config{})

	doc, err := parser.Parse(context.Background(), []byte("no headings here"), "/docs/release_notes-v2.md")

	require.NoError(t, err)
	assert.Equal(t, "release notes v2", doc.Title)
}

func TestStripMarkdown_RemovesCodeBlocks(t *testing.T) {
	content := "Intro\n\n```go\nfunc main() {}\n```\n\nOutro"

	text := stripMarkdown(content)

	assert.Contains(t, text, "Intro")
	assert.Contains(t, text, "Outro")
	assert.NotContains(t, text, "func main")
}

func TestStripMarkdown_ListsAndQuotes(t *testing.T) {
	content := "- first\n- second\n\n> quoted\n\n1. numbered"

	text := stripMarkdown(content)

	assert.Contains(t, text, "first")
	assert.Contains(t, text, "quoted")
	assert.Contains(t, text, "numbered")
	assert.NotContains(t, text, "- ")
	assert.NotContains(t, text, "> ")
}
