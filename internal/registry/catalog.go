package registry

import "fmt"

// BuilderFunc creates a capability implementation from generic settings.
// Settings are implementation-specific values parsed from config or a
// plugin manifest.
type BuilderFunc[T any] func(settings map[string]any) (T, error)

// Catalog maps builder names to their builders for one capability family.
// It is the compile-time implementation set that discovery draws from:
// a plugin manifest names a builder, the builder produces the instance.
type Catalog[T any] struct {
	builders map[string]BuilderFunc[T]
}

// NewCatalog creates an empty builder catalog.
func NewCatalog[T any]() *Catalog[T] {
	return &Catalog[T]{
		builders: make(map[string]BuilderFunc[T]),
	}
}

// Register adds a builder to the catalog.
func (c *Catalog[T]) Register(name string, builder BuilderFunc[T]) {
	c.builders[name] = builder
}

// Build creates an implementation by builder name with the given settings.
// Returns an error if the builder name is not in the catalog.
func (c *Catalog[T]) Build(name string, settings map[string]any) (T, error) {
	builder, ok := c.builders[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown builder: %s", name)
	}
	return builder(settings)
}

// Has returns true if a builder with the given name is registered.
func (c *Catalog[T]) Has(name string) bool {
	_, ok := c.builders[name]
	return ok
}

// Names returns all registered builder names.
func (c *Catalog[T]) Names() []string {
	names := make([]string, 0, len(c.builders))
	for name := range c.builders {
		names = append(names, name)
	}
	return names
}
