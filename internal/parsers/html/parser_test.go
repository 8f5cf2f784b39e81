package html

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry/internal/core/domain"
)

func TestSourceType(t *testing.T) {
	parser := New(Config{})
	assert.Equal(t, "html", parser.SourceType())
}

func TestFetch_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>page</body></html>"))
	}))
	defer server.Close()

	parser := New(Config{UserAgent: "test-agent"})
	content, err := parser.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, string(content), "page")
	assert.Equal(t, "test-agent", gotUA)
}

func TestFetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	parser := New(Config{})
	_, err := parser.Fetch(context.Background(), server.URL)

	assert.ErrorContains(t, err, "404")
}

func TestParse_Success(t *testing.T) {
	parser := New(Config{})

	doc, err := parser.Parse(context.Background(), []byte(
		"<html><head><title>Test Page</title></head><body><p>Hello World</p></body></html>",
	), "https://example.com/page")

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "https://example.com/page", doc.Source)
	assert.Equal(t, "Test Page", doc.Title)
	assert.Contains(t, doc.Content, "Hello World")
	assert.NotContains(t, doc.Content, "<p>")
	assert.Equal(t, "html", doc.SourceType)
	assert.Equal(t, "html", doc.Metadata["format"])
	assert.False(t, doc.Timestamp.IsZero())
}

func TestParse_EmptyContent(t *testing.T) {
	parser := New(Config{})

	doc, err := parser.Parse(context.Background(), nil, "https://example.com")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, doc)
}

func TestParse_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		source        string
		expectedTitle string
	}{
		{
			name:          "title tag",
			content:       "<html><head><title>My Document</title></head><body>x</body></html>",
			source:        "https://example.com/doc.html",
			expectedTitle: "My Document",
		},
		{
			name:          "title with HTML entities",
			content:       "<title>Tom &amp; Jerry</title><body>x</body>",
			source:        "https://example.com/doc.html",
			expectedTitle: "Tom & Jerry",
		},
		{
			name:          "no title falls back to filename",
			content:       "<html><body>Just content</body></html>",
			source:        "https://example.com/my-cool_page.html",
			expectedTitle: "my cool page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := New(Config{})
			doc, err := parser.Parse(context.Background(), []byte(tt.content), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTitle, doc.Title)
		})
	}
}

func TestStripHTML_RemovesScriptsAndStyles(t *testing.T) {
	content := `<html><head><style>body { color: red; }</style></head>
		<body><script>alert("hi")</script><p>Visible text</p></body></html>`

	text := stripHTML(content)

	assert.Contains(t, text, "Visible text")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color: red")
}

func TestStripHTML_PreservesBlockStructure(t *testing.T) {
	text := stripHTML("<p>first</p><p>second</p>")

	assert.Equal(t, "first\nsecond", text)
}
