package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/quarry/internal/logger"
)

// manifest is the on-disk shape of one plugin file.
//
//	builder = "html"
//
//	[settings]
//	timeout_secs = 20
type manifest struct {
	Builder  string         `toml:"builder"`
	Settings map[string]any `toml:"settings"`
}

// Discover scans plugin manifest files in the given locations and registers
// the implementations they describe. Locations are scanned in order, first
// to last, so a later location overrides an earlier one on key collision
// (user override directories are listed after the defaults directory).
//
// A manifest that cannot be read, parsed or built is skipped with a logged
// diagnostic; discovery continues with the remaining files. One broken
// plugin file never aborts startup. A missing location is not an error.
func (r *Registry[T]) Discover(catalog *Catalog[T], locations ...string) {
	for _, dir := range locations {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("Skipping %s plugin location %s: %v", r.label, dir, err)
			}
			continue
		}

		// Directory order from the OS is unspecified; sort for stable logs.
		// Only the final key -> instance map matters for correctness.
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			impl, err := loadManifest(catalog, path)
			if err != nil {
				logger.Warn("Failed to load %s plugin %s: %v", r.label, path, err)
				continue
			}
			r.Register(impl)
		}
	}

	logger.Info("%s discovery complete: %d registered %v", r.label, r.Len(), r.Keys())
}

// loadManifest reads one plugin manifest and builds its implementation.
func loadManifest[T any](catalog *Catalog[T], path string) (T, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return zero, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Builder == "" {
		return zero, fmt.Errorf("manifest missing builder name")
	}

	impl, err := catalog.Build(m.Builder, m.Settings)
	if err != nil {
		return zero, fmt.Errorf("build %q: %w", m.Builder, err)
	}
	return impl, nil
}
