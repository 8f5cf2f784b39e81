package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/pipeline"
)

var (
	ingestFile       string
	ingestType       string
	ingestStore      string
	ingestCollection string
	ingestChunker    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [sources...]",
	Short: "Ingest content sources into a collection",
	Long: `Fetch, parse, optionally chunk, embed and store content sources.

Sources are URLs or file paths, given as arguments or listed in a file
(one per line, blank lines and # comments ignored). Every source is
attempted even if earlier sources fail; the command exits non-zero only
when it cannot start at all.

Use --type auto to pick a parser per source from its file extension.

Examples:
  quarry ingest https://example.com/docs -t html
  quarry ingest notes.md readme.md -t md -c notes
  quarry ingest -f sources.txt -t auto --store sqlite`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "file listing sources, one per line")
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "parser type key, or 'auto' (default from config)")
	ingestCmd.Flags().StringVarP(&ingestStore, "store", "s", "", "embedder/store type key (default from config)")
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "target collection (default from config)")
	ingestCmd.Flags().StringVarP(&ingestChunker, "chunker", "k", "", "chunker type key, empty to disable chunking")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requireWired(); err != nil {
		return err
	}

	sources, err := collectSources(args, ingestFile)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources given: pass them as arguments or with --file")
	}

	parserKey := ingestType
	if parserKey == "" {
		parserKey = cfg.Ingest.DefaultParser
	}
	storeKey := ingestStore
	if storeKey == "" {
		storeKey = cfg.Ingest.DefaultStore
	}
	collection := ingestCollection
	if collection == "" {
		collection = cfg.Ingest.DefaultCollection
	}
	chunkerKey := ingestChunker
	if chunkerKey == "" {
		chunkerKey = cfg.Ingest.DefaultChunker
	}

	pipe := pipeline.New(parserRegistry, chunkerRegistry, embedderRegistry)
	opts := pipeline.Options{
		ChunkerKey:   chunkerKey,
		EmbedderKey:  storeKey,
		Collection:   collection,
		RequestDelay: cfg.RequestDelay(),
	}

	total := &domain.RunResult{}
	for _, batch := range partitionSources(sources, parserKey) {
		opts.ParserKey = batch.parserKey
		result, err := pipe.Run(cmd.Context(), batch.sources, opts)
		if result != nil {
			total.Attempted += result.Attempted
			total.Stored += result.Stored
			total.Failures = append(total.Failures, result.Failures...)
		}
		if err != nil {
			return err
		}
	}

	printRunSummary(cmd, total)
	return nil
}

// sourceBatch groups sources that share one parser.
type sourceBatch struct {
	parserKey string
	sources   []string
}

// partitionSources splits sources into per-parser batches. A literal key
// yields a single batch; "auto" detects the key per source from the file
// extension, falling back to the configured default parser when the
// detected key has no registered implementation.
func partitionSources(sources []string, parserKey string) []sourceBatch {
	if parserKey != "auto" {
		return []sourceBatch{{parserKey: parserKey, sources: sources}}
	}

	registered := make(map[string]bool)
	for _, key := range parserRegistry.Keys() {
		registered[key] = true
	}

	var batches []sourceBatch
	index := make(map[string]int)
	for _, source := range sources {
		key := domain.DetectSourceType(source)
		if !registered[key] {
			logger.Warn("No %q parser for %s, using %s", key, source, cfg.Ingest.DefaultParser)
			key = cfg.Ingest.DefaultParser
		}
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, sourceBatch{parserKey: key})
		}
		batches[i].sources = append(batches[i].sources, source)
	}
	return batches
}

// collectSources merges argument sources with the optional sources file.
func collectSources(args []string, file string) ([]string, error) {
	sources := append([]string{}, args...)
	if file == "" {
		return sources, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening sources file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}
	return sources, nil
}

func printRunSummary(cmd *cobra.Command, result *domain.RunResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Attempted %d source(s), stored %d document(s), %d failed\n",
		result.Attempted, result.Stored, len(result.Failures))
	for _, failure := range result.Failures {
		fmt.Fprintf(out, "  %s (%s): %v\n", failure.Source, failure.Stage, failure.Err)
	}
}
