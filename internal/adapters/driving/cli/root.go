// Package cli implements the quarry command line interface using cobra.
// The root command wires configuration, the embedding service and the
// capability registries once, in PersistentPreRunE; subcommands consume
// the wired package state.
package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quarry/internal/backends"
	"github.com/custodia-labs/quarry/internal/chunkers"
	"github.com/custodia-labs/quarry/internal/config"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/embedders"
	"github.com/custodia-labs/quarry/internal/embedding"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/parsers"
	"github.com/custodia-labs/quarry/internal/registry"
	"github.com/custodia-labs/quarry/internal/tools"
)

var (
	configPath string
	verbose    bool
)

// Wired state shared by subcommands. setup populates it once per process;
// tests replace it directly and mark it wired.
var (
	cfg *config.Config

	parserRegistry   *registry.Registry[driven.Parser]
	chunkerRegistry  *registry.Registry[driven.Chunker]
	embedderRegistry *registry.Registry[driven.Embedder]
	backendRegistry  *registry.Registry[driven.Backend]
	toolRegistry     *registry.Registry[driven.Tool]

	wired bool
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Content ingestion and MCP search for vector collections",
	Long: `Quarry ingests content sources into vector collections and serves
them to AI assistants over the Model Context Protocol (MCP).

Parsers, chunkers, embedders, backends and tools are pluggable: built-in
implementations register at startup and TOML manifests in the configured
plugin directories add or override them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.quarry/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and builds the capability registries.
// Environment variables from a .env file are loaded first, so connection
// settings (hosts, ports, API keys) are available before anything connects.
func setup(_ *cobra.Command, _ []string) error {
	if wired {
		return nil
	}

	_ = godotenv.Load()
	logger.SetVerbose(verbose)

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	service, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		return err
	}

	parserCatalog := registry.NewCatalog[driven.Parser]()
	parsers.RegisterDefaults(parserCatalog)

	chunkerCatalog := registry.NewCatalog[driven.Chunker]()
	chunkers.RegisterDefaults(chunkerCatalog)

	embedderCatalog := registry.NewCatalog[driven.Embedder]()
	embedders.RegisterDefaults(embedderCatalog, service)

	backendCatalog := registry.NewCatalog[driven.Backend]()
	backends.RegisterDefaults(backendCatalog, service)

	toolCatalog := registry.NewCatalog[driven.Tool]()
	tools.RegisterDefaults(toolCatalog)

	parserRegistry = buildRegistry("parser", driven.Parser.SourceType, parserCatalog)
	chunkerRegistry = buildRegistry("chunker", driven.Chunker.ChunkerType, chunkerCatalog)
	embedderRegistry = buildRegistry("embedder", driven.Embedder.StoreType, embedderCatalog)
	backendRegistry = buildRegistry("backend", driven.Backend.BackendType, backendCatalog)
	toolRegistry = buildRegistry("tool", driven.Tool.Name, toolCatalog)

	// Plugin manifests live in per-family subdirectories of each plugin
	// directory, so a manifest is only ever tried against its own catalog.
	parserRegistry.Discover(parserCatalog, familyDirs("parsers")...)
	chunkerRegistry.Discover(chunkerCatalog, familyDirs("chunkers")...)
	embedderRegistry.Discover(embedderCatalog, familyDirs("embedders")...)
	backendRegistry.Discover(backendCatalog, familyDirs("backends")...)
	toolRegistry.Discover(toolCatalog, familyDirs("tools")...)

	wired = true
	return nil
}

// buildRegistry registers every builder in the catalog as a built-in,
// configured from its [settings.<name>] table. A builder whose settings
// make it unbuildable is skipped with a diagnostic; the remaining
// built-ins still register.
func buildRegistry[T any](label string, keyOf func(T) string, catalog *registry.Catalog[T]) *registry.Registry[T] {
	reg := registry.New(label, keyOf)

	names := catalog.Names()
	sort.Strings(names)
	for _, name := range names {
		impl, err := catalog.Build(name, cfg.SettingsFor(name))
		if err != nil {
			logger.Warn("Skipping built-in %s %q: %v", label, name, err)
			continue
		}
		reg.Register(impl)
	}
	return reg
}

// familyDirs maps the configured plugin directories to one capability
// family's subdirectories, preserving order.
func familyDirs(family string) []string {
	dirs := make([]string, 0, len(cfg.PluginDirs))
	for _, dir := range cfg.PluginDirs {
		dirs = append(dirs, filepath.Join(dir, family))
	}
	return dirs
}

// allPluginDirs returns every family subdirectory, for watching.
func allPluginDirs() []string {
	var dirs []string
	for _, family := range []string{"parsers", "chunkers", "embedders", "backends", "tools"} {
		dirs = append(dirs, familyDirs(family)...)
	}
	return dirs
}

// requireWired guards subcommands that cannot run without the registries.
func requireWired() error {
	if !wired {
		return fmt.Errorf("cli not initialised")
	}
	return nil
}
