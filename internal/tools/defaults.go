package tools

import (
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/registry"
)

// RegisterDefaults registers builders for all built-in tools with the
// catalog. Built-in tools take no settings; user plugin manifests can
// still name these builders to re-enable or override them.
func RegisterDefaults(c *registry.Catalog[driven.Tool]) {
	c.Register("search", func(_ map[string]any) (driven.Tool, error) {
		return NewSearch(), nil
	})
	c.Register("list_collections", func(_ map[string]any) (driven.Tool, error) {
		return NewListCollections(), nil
	})
	c.Register("get_documents", func(_ map[string]any) (driven.Tool, error) {
		return NewGetDocuments(), nil
	})
	c.Register("delete_collection", func(_ map[string]any) (driven.Tool, error) {
		return NewDeleteCollection(), nil
	})
	c.Register("add_documents", func(_ map[string]any) (driven.Tool, error) {
		return NewAddDocuments(), nil
	})
}
