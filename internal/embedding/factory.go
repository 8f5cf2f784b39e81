// Package embedding constructs the embedding service selected by config.
// Model and batching behaviour come from the config file; connection
// details and API keys come exclusively from the environment.
package embedding

import (
	"fmt"
	"time"

	"github.com/custodia-labs/quarry/internal/config"
	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/embedding/ollama"
	"github.com/custodia-labs/quarry/internal/embedding/openai"
)

// NewFromConfig builds the embedding service for the configured provider.
func NewFromConfig(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Provider {
	case "", "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			Model:      cfg.Model,
			Timeout:    timeout,
			Dimensions: cfg.Dimensions,
		}), nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			Model:      cfg.Model,
			Timeout:    timeout,
			Dimensions: cfg.Dimensions,
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfiguration, cfg.Provider)
	}
}
