// Package chunkers registers the built-in chunker builders.
package chunkers

import (
	"github.com/custodia-labs/quarry/internal/chunkers/fixed"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/registry"
)

// RegisterDefaults registers builders for the built-in chunkers.
//
// Recognised settings: chunk_size, overlap (fixed).
func RegisterDefaults(c *registry.Catalog[driven.Chunker]) {
	c.Register("fixed", func(settings map[string]any) (driven.Chunker, error) {
		opts := []fixed.Option{}
		if size := intSetting(settings, "chunk_size"); size > 0 {
			opts = append(opts, fixed.WithChunkSize(size))
		}
		if overlap, ok := lookupInt(settings, "overlap"); ok {
			opts = append(opts, fixed.WithOverlap(overlap))
		}
		return fixed.New(opts...), nil
	})
}

// intSetting reads an integer setting; TOML decodes integers as int64.
func intSetting(settings map[string]any, key string) int {
	v, _ := lookupInt(settings, key)
	return v
}

func lookupInt(settings map[string]any, key string) (int, bool) {
	switch v := settings[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
