package storage

import "time"

// DocumentRecord represents a source document tracked by the indexer.
type DocumentRecord struct {
	ID        string // UUID
	Slug      string // Stable identifier used as the chunk ID namespace
	RelPath   string // Relative path from the corpus root
	Section   string // Section label applied to the document's chunks
	Title     string // Extracted or caller-supplied title
	Hash      string // SHA256 hex string of file content
	UpdatedAt time.Time
}

// ChunkRecord represents an indexed chunk of a document.
type ChunkRecord struct {
	PointID    string // UUID, doubles as the vector store point ID
	RecordID   string // Addressable chunk ID ("{slug}:{section}:{index}")
	DocumentID string // Foreign key to documents.id
	ChunkIndex int    // 1-based position within the document
	Section    string
	Text       string
	TokenCount int // Token count at indexing time
}
