package domain

import (
	"path"
	"strings"
)

// tlds lists common top-level domains that must not be mistaken for file
// extensions when a bare host like "example.com" is given as a source.
var tlds = map[string]struct{}{
	"com": {}, "org": {}, "net": {}, "edu": {}, "gov": {}, "io": {},
	"co": {}, "uk": {}, "de": {}, "fr": {}, "jp": {}, "au": {}, "ca": {},
}

// DetectSourceType infers a parser type key from a source identifier's file
// extension. Sources without an extension, or whose "extension" is really a
// TLD, default to "html".
func DetectSourceType(source string) string {
	// Strip scheme and query, keep the last path element.
	trimmed := source
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
	}
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	base := path.Base(strings.ReplaceAll(trimmed, "\\", "/"))

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	if ext == "" {
		return "html"
	}
	if _, isTLD := tlds[ext]; isTLD {
		return "html"
	}
	// Markdown files commonly use both extensions.
	if ext == "markdown" {
		return "md"
	}
	return ext
}
