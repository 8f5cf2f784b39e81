// Package parsers registers the built-in parser builders.
package parsers

import (
	"time"

	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/parsers/html"
	"github.com/custodia-labs/quarry/internal/parsers/markdown"
	"github.com/custodia-labs/quarry/internal/parsers/text"
	"github.com/custodia-labs/quarry/internal/registry"
)

// RegisterDefaults registers builders for the built-in parsers.
//
// Recognised settings: timeout_secs and user_agent (html),
// timeout_secs (md).
func RegisterDefaults(c *registry.Catalog[driven.Parser]) {
	c.Register("html", func(settings map[string]any) (driven.Parser, error) {
		return html.New(html.Config{
			Timeout:   timeoutSetting(settings),
			UserAgent: stringSetting(settings, "user_agent"),
		}), nil
	})
	c.Register("md", func(settings map[string]any) (driven.Parser, error) {
		return markdown.New(markdown.Config{
			Timeout: timeoutSetting(settings),
		}), nil
	})
	c.Register("txt", func(_ map[string]any) (driven.Parser, error) {
		return text.New(), nil
	})
}

// timeoutSetting reads timeout_secs; TOML decodes integers as int64.
func timeoutSetting(settings map[string]any) time.Duration {
	switch v := settings["timeout_secs"].(type) {
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
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
