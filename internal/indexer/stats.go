package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// ChunkerVersion is the version identifier for the chunker implementation.
// Update this when chunking logic changes significantly.
const ChunkerVersion = "v1.0"

// IndexingCoverageStats contains statistics about the indexing process.
type IndexingCoverageStats struct {
	// DocsProcessed is the total number of documents processed.
	DocsProcessed int `json:"docs_processed"`
	// DocsWith0Chunks is the number of documents that produced 0 chunks.
	DocsWith0Chunks int `json:"docs_with_0_chunks"`
	// ChunksEmbedded is the number of chunks stored in the index.
	ChunksEmbedded int `json:"chunks_embedded"`
	// ChunkTokenStats contains statistics about token counts per chunk.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion is a hash identifying the index build (chunker +
	// embedding model + packing params).
	IndexVersion string `json:"index_version"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	// Min is the minimum token count across all chunks.
	Min int `json:"min"`
	// Max is the maximum token count across all chunks.
	Max int `json:"max"`
	// Mean is the mean token count across all chunks.
	Mean float64 `json:"mean"`
	// P95 is the 95th percentile token count.
	P95 int `json:"p95"`
}

// GetIndexingCoverageStats computes indexing coverage statistics from the
// current state of the index.
func (p *Pipeline) GetIndexingCoverageStats(ctx context.Context, embeddingModelName string) (*IndexingCoverageStats, error) {
	stats := &IndexingCoverageStats{
		ChunkerVersion: ChunkerVersion,
	}

	docsProcessed, err := p.docRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	stats.DocsProcessed = docsProcessed

	docsWith0Chunks, err := p.docRepo.CountWithoutChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents without chunks: %w", err)
	}
	stats.DocsWith0Chunks = docsWith0Chunks

	chunks, err := p.chunkRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	stats.ChunksEmbedded = len(chunks)

	if len(chunks) > 0 {
		tokenCounts := make([]int, 0, len(chunks))
		for _, c := range chunks {
			count := c.TokenCount
			if count < 1 {
				// Older rows may predate token tracking; recount on the fly.
				count = p.packer.Counter().Count(c.Text)
			}
			tokenCounts = append(tokenCounts, count)
		}
		stats.ChunkTokenStats = computeTokenStats(tokenCounts)
	}

	// Index version hash binds the chunker version to the embedding model
	// and packing parameters, so parameter changes invalidate comparisons.
	indexVersionInput := fmt.Sprintf("%s|%s|target=%d|overlap=%d",
		ChunkerVersion, embeddingModelName, p.packer.TargetTokens(), p.packer.OverlapTokens())
	hash := sha256.Sum256([]byte(indexVersionInput))
	stats.IndexVersion = hex.EncodeToString(hash[:])[:16]

	return stats, nil
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	min := sorted[0]
	max := sorted[len(sorted)-1]

	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	p95 := sorted[p95Index]

	return ChunkTokenStats{
		Min:  min,
		Max:  max,
		Mean: math.Round(mean*100) / 100,
		P95:  p95,
	}
}
