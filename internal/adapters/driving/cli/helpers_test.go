package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/quarry/internal/backends/memory"
	"github.com/custodia-labs/quarry/internal/config"
	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/registry"
	"github.com/custodia-labs/quarry/internal/tools"
)

// stubParser serves canned content under a configurable type key.
type stubParser struct {
	typeKey    string
	fetchCalls int
	failFetch  map[string]bool
}

func (p *stubParser) SourceType() string { return p.typeKey }

func (p *stubParser) Fetch(_ context.Context, source string) ([]byte, error) {
	p.fetchCalls++
	if p.failFetch[source] {
		return nil, errors.New("connection refused")
	}
	return []byte("content of " + source), nil
}

func (p *stubParser) Parse(_ context.Context, content []byte, source string) (*domain.Document, error) {
	return &domain.Document{
		Source:     source,
		Title:      "Stub",
		Content:    string(content),
		Timestamp:  time.Now().UTC(),
		SourceType: p.typeKey,
	}, nil
}

// stubEmbedder stores everything it is given under a constant vector.
type stubEmbedder struct {
	stored []driven.EmbeddedDocument
}

func (e *stubEmbedder) StoreType() string { return "stub" }

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (e *stubEmbedder) Store(_ context.Context, docs []driven.EmbeddedDocument, _ string) (int, error) {
	e.stored = append(e.stored, docs...)
	return len(docs), nil
}

// testState holds the stubs wired by setupTestRegistries so tests can
// inspect them after a command runs.
type testState struct {
	htmlParser *stubParser
	mdParser   *stubParser
	embedder   *stubEmbedder
	backend    *memory.Backend
}

// setupTestRegistries wires the package state with in-memory stubs and
// returns a cleanup that restores whatever was there before.
func setupTestRegistries() (*testState, func()) {
	oldCfg := cfg
	oldParsers := parserRegistry
	oldChunkers := chunkerRegistry
	oldEmbedders := embedderRegistry
	oldBackends := backendRegistry
	oldTools := toolRegistry
	oldWired := wired

	state := &testState{
		htmlParser: &stubParser{typeKey: "html", failFetch: map[string]bool{}},
		mdParser:   &stubParser{typeKey: "md", failFetch: map[string]bool{}},
		embedder:   &stubEmbedder{},
		backend:    memory.New(),
	}

	cfg = &config.Config{
		Ingest: config.IngestConfig{
			DefaultParser:     "html",
			DefaultStore:      "stub",
			DefaultCollection: "documents",
		},
		Server: config.ServerConfig{Backend: "memory"},
	}

	parserRegistry = registry.New("parser", driven.Parser.SourceType)
	parserRegistry.Register(state.htmlParser)
	parserRegistry.Register(state.mdParser)

	chunkerRegistry = registry.New("chunker", driven.Chunker.ChunkerType)

	embedderRegistry = registry.New("embedder", driven.Embedder.StoreType)
	embedderRegistry.Register(state.embedder)

	backendRegistry = registry.New("backend", driven.Backend.BackendType)
	backendRegistry.Register(state.backend)

	toolRegistry = registry.New("tool", driven.Tool.Name)
	toolRegistry.Register(tools.NewSearch())
	toolRegistry.Register(tools.NewListCollections())

	wired = true

	return state, func() {
		cfg = oldCfg
		parserRegistry = oldParsers
		chunkerRegistry = oldChunkers
		embedderRegistry = oldEmbedders
		backendRegistry = oldBackends
		toolRegistry = oldTools
		wired = oldWired

		ingestFile = ""
		ingestType = ""
		ingestStore = ""
		ingestCollection = ""
		ingestChunker = ""
		rootCmd.SetArgs(nil)
	}
}
