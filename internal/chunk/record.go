package chunk

import (
	"fmt"
	"time"
)

// DefaultSlug is used in record IDs when the base metadata carries no slug.
const DefaultSlug = "doc"

// Record is an addressable chunk ready for serialization or indexing. Once
// built it is never mutated; ownership transfers to the caller.
type Record struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding,omitempty"`
}

// BuildRecords zips chunk texts with 1-based sequence indexes and metadata
// into records. IDs follow "{slug}:{section}:{index}" with the index
// zero-padded to three digits; the slug comes from baseMeta["slug"] and
// defaults to DefaultSlug.
//
// Each record's metadata is a shallow copy of baseMeta with section,
// chunk_index and the current date injected; injected keys win over
// caller-supplied ones. If embeddings are provided they are attached by
// position; chunks beyond the embedding slice simply omit the field.
func BuildRecords(chunks []string, baseMeta map[string]any, section string, embeddings [][]float32) []Record {
	slugName := DefaultSlug
	if s, ok := baseMeta["slug"].(string); ok && s != "" {
		slugName = s
	}
	updated := time.Now().UTC().Format("2006-01-02")

	records := make([]Record, 0, len(chunks))
	for i, text := range chunks {
		index := i + 1

		meta := make(map[string]any, len(baseMeta)+3)
		for k, v := range baseMeta {
			meta[k] = v
		}
		meta["section"] = section
		meta["chunk_index"] = index
		meta["updated"] = updated

		rec := Record{
			ID:       fmt.Sprintf("%s:%s:%03d", slugName, section, index),
			Text:     text,
			Metadata: meta,
		}
		if i < len(embeddings) {
			rec.Embedding = embeddings[i]
		}

		records = append(records, rec)
	}

	return records
}
