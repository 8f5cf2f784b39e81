// Package pipeline orchestrates ingestion: fetch, parse, chunk, embed and
// store across a batch of heterogeneous sources, with per-source failure
// isolation and rate limiting between sources.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/registry"
)

// Options configure one pipeline run.
type Options struct {
	// ParserKey selects the parser for every source in the batch.
	ParserKey string

	// ChunkerKey selects the chunker; empty disables chunking.
	ChunkerKey string

	// EmbedderKey selects the embedder/store.
	EmbedderKey string

	// Collection is the target collection name.
	Collection string

	// RequestDelay is the pause between sources. Zero disables the delay.
	RequestDelay time.Duration
}

// Pipeline drives sources through fetch, parse, chunk, embed and store,
// resolving the implementation for each stage from the registries.
type Pipeline struct {
	parsers   *registry.Registry[driven.Parser]
	chunkers  *registry.Registry[driven.Chunker]
	embedders *registry.Registry[driven.Embedder]
}

// New creates a pipeline over the given capability registries.
func New(
	parsers *registry.Registry[driven.Parser],
	chunkers *registry.Registry[driven.Chunker],
	embedders *registry.Registry[driven.Embedder],
) *Pipeline {
	return &Pipeline{
		parsers:   parsers,
		chunkers:  chunkers,
		embedders: embedders,
	}
}

// Run processes sources in input order and returns the aggregate result.
//
// Unknown capability keys fail the whole run with a configuration error
// before any source is touched. After that, a stage failure is recorded
// against its source and the batch continues: the run completes exactly
// when every source has been attempted, even if every source failed.
// Context cancellation is the only early exit.
func (p *Pipeline) Run(ctx context.Context, sources []string, opts Options) (*domain.RunResult, error) {
	// Precondition checks, once, before any work starts.
	parser, err := p.parsers.Resolve(opts.ParserKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	embedder, err := p.embedders.Resolve(opts.EmbedderKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	var chunker driven.Chunker
	if opts.ChunkerKey != "" {
		chunker, err = p.chunkers.Resolve(opts.ChunkerKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
		}
	}

	logger.Info("Starting ingestion: %d source(s), type=%s, store=%s, collection=%s",
		len(sources), opts.ParserKey, opts.EmbedderKey, opts.Collection)

	// The limiter makes the inter-source delay exact: the first wait
	// passes immediately, every later wait enforces the delay, and no
	// delay trails the last source.
	var limiter *rate.Limiter
	if opts.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RequestDelay), 1)
	}

	result := &domain.RunResult{}
	for _, source := range sources {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		} else if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Attempted++
		stored := p.processSource(ctx, source, parser, chunker, embedder, opts.Collection, result)
		result.Stored += stored
	}

	logger.Info("Ingestion complete: %d attempted, %d stored, %d failed",
		result.Attempted, result.Stored, len(result.Failures))
	return result, nil
}

// processSource runs one source through the stages and returns the number
// of documents stored for it. Failures are recorded on result.
func (p *Pipeline) processSource(
	ctx context.Context,
	source string,
	parser driven.Parser,
	chunker driven.Chunker,
	embedder driven.Embedder,
	collection string,
	result *domain.RunResult,
) int {
	logger.Debug("Fetching (%s): %s", parser.SourceType(), source)
	raw, err := parser.Fetch(ctx, source)
	if err != nil {
		result.RecordFailure(source, domain.StageFetch, err)
		return 0
	}

	doc, err := parser.Parse(ctx, raw, source)
	if err != nil {
		result.RecordFailure(source, domain.StageParse, err)
		return 0
	}

	docs := []domain.Document{*doc}
	if chunker != nil {
		chunks, err := chunker.Chunk(ctx, doc)
		if err != nil {
			result.RecordFailure(source, domain.StageChunk, err)
			return 0
		}
		if len(chunks) == 0 {
			result.RecordFailure(source, domain.StageChunk, domain.ErrEmptyChunks)
			return 0
		}
		docs = chunks
	}

	// Embed each document. One failed embedding does not fail its
	// siblings, but a source with nothing embedded is a failed source.
	embedded := make([]driven.EmbeddedDocument, 0, len(docs))
	var lastEmbedErr error
	for i := range docs {
		vector, err := embedder.Embed(ctx, docs[i].Content)
		if err != nil {
			logger.Warn("Embedding failed for %s (chunk %d): %v", source, i, err)
			lastEmbedErr = err
			continue
		}
		embedded = append(embedded, driven.EmbeddedDocument{Document: docs[i], Vector: vector})
	}
	if len(embedded) == 0 {
		result.RecordFailure(source, domain.StageEmbed, lastEmbedErr)
		return 0
	}

	count, err := embedder.Store(ctx, embedded, collection)
	if err != nil {
		// Preserve the partial count in the diagnostic; the documents
		// already stored stay stored.
		result.RecordFailure(source, domain.StageStore,
			fmt.Errorf("stored %d of %d documents: %w", count, len(embedded), err))
		return count
	}

	logger.Debug("Stored %d document(s) from %s into %s", count, source, collection)
	return count
}
