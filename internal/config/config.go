// Package config loads behavioural configuration from a TOML file.
//
// Configuration carries behaviour only: delays, batch sizes, model names,
// allow-lists and per-capability settings. Connection details (hosts, ports,
// credentials) are environment variables, never config fields; this
// separation is a hard contract across the whole system.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/logger"
)

// Defaults applied when the config file is absent or a field is unset.
const (
	DefaultParser       = "html"
	DefaultStore        = "qdrant"
	DefaultCollection   = "documents"
	DefaultBackend      = "qdrant"
	DefaultRequestDelay = 1.0
)

// IngestConfig controls ingestion pipeline behaviour.
type IngestConfig struct {
	// DefaultParser is the parser key used when -t/--type is not given.
	DefaultParser string `toml:"default_parser"`

	// DefaultStore is the embedder key used when -s/--store is not given.
	DefaultStore string `toml:"default_store"`

	// DefaultCollection is the target collection when -c is not given.
	DefaultCollection string `toml:"default_collection"`

	// DefaultChunker is the chunker key, empty to disable chunking.
	DefaultChunker string `toml:"default_chunker"`

	// RequestDelaySeconds is the pause between sources (rate limiting).
	RequestDelaySeconds float64 `toml:"request_delay"`
}

// ServerConfig controls the MCP server surface.
type ServerConfig struct {
	// Backend is the backend key resolved once at startup.
	Backend string `toml:"backend"`

	// EnabledTools, when non-empty, is an allow-list: only listed tool
	// names are dispatchable, all others behave as unknown.
	EnabledTools []string `toml:"enabled_tools"`
}

// EmbeddingConfig selects and configures the embedding service.
// API keys and endpoints with credentials stay in environment variables.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// Dimensions is the embedding vector size, model-dependent.
	Dimensions int `toml:"dimensions"`

	// TimeoutSeconds bounds one embedding request.
	TimeoutSeconds int `toml:"timeout_secs"`

	// BatchSize caps texts per batch request.
	BatchSize int `toml:"batch_size"`
}

// Config is the root configuration.
type Config struct {
	Ingest    IngestConfig    `toml:"ingest"`
	Server    ServerConfig    `toml:"server"`
	Embedding EmbeddingConfig `toml:"embedding"`

	// PluginDirs are scanned for plugin manifests, in order; later
	// directories override earlier ones on type-key collision.
	PluginDirs []string `toml:"plugin_dirs"`

	// Settings holds per-capability settings keyed by type key,
	// e.g. [settings.html] timeout_secs = 20.
	Settings map[string]map[string]any `toml:"settings"`
}

// Load reads configuration from path. A missing file yields defaults with a
// diagnostic; a malformed file is a configuration error and aborts startup.
// An empty path loads ~/.quarry/config.toml.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
		}
		path = filepath.Join(home, ".quarry", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Config file not found at %s, using defaults", path)
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfiguration, path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfiguration, path, err)
	}
	cfg.applyDefaults()
	logger.Info("Loaded config from %s", path)
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Ingest.DefaultParser == "" {
		c.Ingest.DefaultParser = DefaultParser
	}
	if c.Ingest.DefaultStore == "" {
		c.Ingest.DefaultStore = DefaultStore
	}
	if c.Ingest.DefaultCollection == "" {
		c.Ingest.DefaultCollection = DefaultCollection
	}
	if c.Ingest.RequestDelaySeconds == 0 {
		c.Ingest.RequestDelaySeconds = DefaultRequestDelay
	}
	if c.Server.Backend == "" {
		c.Server.Backend = DefaultBackend
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
}

// RequestDelay returns the inter-source delay as a duration.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.Ingest.RequestDelaySeconds * float64(time.Second))
}

// SettingsFor returns the settings table for a type key, or nil.
func (c *Config) SettingsFor(key string) map[string]any {
	if c.Settings == nil {
		return nil
	}
	return c.Settings[key]
}
