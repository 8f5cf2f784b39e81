// Package registry provides the typed capability registry and plugin
// discovery mechanism. Each capability family (parser, chunker, embedder,
// backend, tool) gets its own registry, keyed by the type key each
// implementation declares. Registries are built once at startup and are
// read-only afterwards, so concurrent resolution needs no locking.
package registry

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/logger"
)

// Registry indexes implementations of one capability family by type key.
type Registry[T any] struct {
	label   string
	keyOf   func(T) string
	entries map[string]T
}

// New creates a registry for one capability family.
// label names the family in diagnostics (e.g. "parser"); keyOf reads the
// declared type key from an implementation.
func New[T any](label string, keyOf func(T) string) *Registry[T] {
	return &Registry[T]{
		label:   label,
		keyOf:   keyOf,
		entries: make(map[string]T),
	}
}

// Register adds an implementation under its declared type key.
// Re-registration of an existing key is last-write-wins with a diagnostic,
// never a fatal error: later search locations deliberately override
// earlier (default) ones.
func (r *Registry[T]) Register(impl T) {
	key := r.keyOf(impl)
	if _, exists := r.entries[key]; exists {
		logger.Warn("%s %q registered twice, keeping the later registration", r.label, key)
	}
	r.entries[key] = impl
	logger.Info("Registered %s: %s", r.label, key)
}

// Resolve returns the implementation registered under key.
// An unregistered key fails with domain.ErrUnknownCapability; resolution
// never falls back to a default.
func (r *Registry[T]) Resolve(key string) (T, error) {
	impl, ok := r.entries[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q (available: %v)",
			domain.ErrUnknownCapability, r.label, key, r.Keys())
	}
	return impl, nil
}

// Keys returns all registered type keys, sorted.
func (r *Registry[T]) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered implementations.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

// Label returns the family label used in diagnostics.
func (r *Registry[T]) Label() string {
	return r.label
}
