package domain

import "time"

// Metadata keys set on documents produced by chunking.
const (
	// MetaChunkIndex is the 0-based position of a chunk among its siblings.
	MetaChunkIndex = "chunk_index"

	// MetaTotalChunks is the total number of chunks derived from the parent.
	MetaTotalChunks = "total_chunks"

	// MetaParentSource is the source identifier of the parent document.
	MetaParentSource = "parent_source"
)

// Document is the canonical unit flowing through the ingestion pipeline.
// It is an immutable value object: parsers create it, chunking derives new
// documents from it, and no stage mutates an existing one.
type Document struct {
	// Source is the identifier of origin (URL, file path, composite key).
	Source string

	// Title is the human-readable label. May be empty.
	Title string

	// Content is the extracted text payload. Always text, never raw bytes.
	Content string

	// Metadata contains parser- and chunk-specific key-value pairs.
	Metadata map[string]any

	// Timestamp is when the document was parsed. Set once, never updated.
	Timestamp time.Time

	// SourceType names the parser that produced this document (e.g. "html").
	SourceType string
}

// Chunk derives a new document carrying a slice of this document's content.
// The child shares the parent's source, title, timestamp and source type,
// and records its position via chunk metadata. The parent is not modified.
func (d Document) Chunk(content string, index, total int) Document {
	meta := make(map[string]any, len(d.Metadata)+3)
	for k, v := range d.Metadata {
		meta[k] = v
	}
	meta[MetaChunkIndex] = index
	meta[MetaTotalChunks] = total
	meta[MetaParentSource] = d.Source

	return Document{
		Source:     d.Source,
		Title:      d.Title,
		Content:    content,
		Metadata:   meta,
		Timestamp:  d.Timestamp,
		SourceType: d.SourceType,
	}
}

// ChunkIndex returns the chunk position and true when this document was
// produced by chunking, or 0 and false for an unchunked document.
func (d Document) ChunkIndex() (int, bool) {
	v, ok := d.Metadata[MetaChunkIndex]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
