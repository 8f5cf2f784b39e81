// Package embedders registers the built-in embedder builders.
package embedders

import (
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	qdrantembed "github.com/custodia-labs/quarry/internal/embedders/qdrant"
	sqliteembed "github.com/custodia-labs/quarry/internal/embedders/sqlite"
	"github.com/custodia-labs/quarry/internal/registry"
	"github.com/custodia-labs/quarry/internal/storage/qdrant"
	"github.com/custodia-labs/quarry/internal/storage/sqlite"
)

// RegisterDefaults registers builders for the built-in embedders. All
// embedders share the embedding service selected by config; connection
// details come from the environment inside each storage client.
//
// Recognised settings: batch_size (qdrant), path (sqlite).
func RegisterDefaults(c *registry.Catalog[driven.Embedder], service driven.EmbeddingService) {
	c.Register("qdrant", func(settings map[string]any) (driven.Embedder, error) {
		return qdrantembed.New(service, qdrant.NewFromEnv(), intSetting(settings, "batch_size")), nil
	})
	c.Register("sqlite", func(settings map[string]any) (driven.Embedder, error) {
		store, err := sqlite.NewStore(stringSetting(settings, "path"))
		if err != nil {
			return nil, err
		}
		return sqliteembed.New(service, store), nil
	})
}

// intSetting reads an integer setting; TOML decodes integers as int64.
func intSetting(settings map[string]any, key string) int {
	switch v := settings[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func stringSetting(settings map[string]any, key string) string {
	if v, ok := settings[key].(string); ok {
		return v
	}
	return ""
}
