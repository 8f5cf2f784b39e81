// Package backends registers the built-in server backend builders.
package backends

import (
	"github.com/custodia-labs/quarry/internal/backends/memory"
	qdrantbackend "github.com/custodia-labs/quarry/internal/backends/qdrant"
	sqlitebackend "github.com/custodia-labs/quarry/internal/backends/sqlite"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/registry"
	"github.com/custodia-labs/quarry/internal/storage/qdrant"
	"github.com/custodia-labs/quarry/internal/storage/sqlite"
)

// RegisterDefaults registers builders for the built-in backends. Connection
// details come from the environment; settings carry behaviour only.
//
// Recognised settings: batch_size (qdrant), path (sqlite).
func RegisterDefaults(c *registry.Catalog[driven.Backend], service driven.EmbeddingService) {
	c.Register("qdrant", func(settings map[string]any) (driven.Backend, error) {
		return qdrantbackend.New(qdrant.NewFromEnv(), service, intSetting(settings, "batch_size")), nil
	})
	c.Register("sqlite", func(settings map[string]any) (driven.Backend, error) {
		store, err := sqlite.NewStore(stringSetting(settings, "path"))
		if err != nil {
			return nil, err
		}
		return sqlitebackend.New(store, service), nil
	})
	c.Register("memory", func(_ map[string]any) (driven.Backend, error) {
		return memory.New(), nil
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
