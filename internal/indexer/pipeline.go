package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks ragkit/internal/indexer Embedder

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"ragkit/internal/chunk"
	"ragkit/internal/contextutil"
	"ragkit/internal/corpus"
	"ragkit/internal/docmeta"
	"ragkit/internal/storage"
	"ragkit/internal/vectorstore"
)

// Embedder generates one embedding vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline orchestrates the indexing of corpus documents into SQLite and
// Qdrant: scan, chunk, embed, store.
type Pipeline struct {
	corpusRoot  string
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	packer      *chunk.Packer
	logger      *slog.Logger
}

// NewPipeline creates a new indexing pipeline. The packer controls chunk
// sizing; pass nil to use the defaults.
func NewPipeline(
	corpusRoot string,
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	packer *chunk.Packer,
) *Pipeline {
	if packer == nil {
		packer, _ = chunk.NewPacker(nil, chunk.DefaultTargetTokens, chunk.DefaultOverlapTokens)
	}
	return &Pipeline{
		corpusRoot:  corpusRoot,
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		packer:      packer,
		logger:      slog.Default(),
	}
}

// IndexFile indexes a single corpus file. It checks whether the file has
// changed (via content hash), chunks it, generates embeddings, and stores
// chunks in both SQLite and Qdrant.
func (p *Pipeline) IndexFile(ctx context.Context, file corpus.File) error {
	logger := contextutil.LoggerFromContext(ctx)

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", file.AbsPath, err)
	}

	hash := sha256.Sum256(content)
	hashHex := fmt.Sprintf("%x", hash)

	existing, err := p.docRepo.GetByPath(ctx, file.RelPath)
	if err != nil && err != storage.ErrNotFound {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil && existing.Hash == hashHex {
		logger.DebugContext(ctx, "skipping unchanged file", "rel_path", file.RelPath, "hash", hashHex)
		return nil
	}

	// Folder name doubles as the section label for files in subfolders.
	section := file.Folder
	if section == "" {
		section = docmeta.DefaultSection
	}

	meta, section := docmeta.Build(file.RelPath, content, docmeta.Overrides{Section: section})
	title, _ := meta["title"].(string)
	slugName, _ := meta["slug"].(string)

	chunks := p.packer.PackText(string(content))
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "rel_path", file.RelPath)
		return nil
	}

	var docID string
	if existing != nil {
		docID = existing.ID
	} else {
		docID = uuid.New().String()
	}

	docRecord := &storage.DocumentRecord{
		ID:      docID,
		Slug:    slugName,
		RelPath: file.RelPath,
		Section: section,
		Title:   title,
		Hash:    hashHex,
	}
	if err := p.docRepo.Upsert(ctx, docRecord); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	if existing != nil {
		oldPointIDs, err := p.chunkRepo.ListPointIDsByDocument(ctx, docID)
		if err != nil {
			return fmt.Errorf("failed to list old chunk point IDs: %w", err)
		}

		if len(oldPointIDs) > 0 {
			if err := p.vectorStore.Delete(ctx, p.collection, oldPointIDs); err != nil {
				logger.WarnContext(ctx, "failed to delete old chunks from Qdrant", "error", err, "count", len(oldPointIDs))
				// Continue anyway - the new points overwrite by payload
			}

			if err := p.chunkRepo.DeleteByDocument(ctx, docID); err != nil {
				return fmt.Errorf("failed to delete old chunks from SQLite: %w", err)
			}
		}
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	records := chunk.BuildRecords(chunks, meta, section, embeddings)

	chunkRecords := make([]*storage.ChunkRecord, len(records))
	points := make([]vectorstore.Point, len(records))

	for i, rec := range records {
		pointID := uuid.New().String()

		chunkRecords[i] = &storage.ChunkRecord{
			PointID:    pointID,
			RecordID:   rec.ID,
			DocumentID: docID,
			ChunkIndex: i + 1,
			Section:    section,
			Text:       rec.Text,
			TokenCount: p.packer.Counter().Count(rec.Text),
		}

		payload := make(map[string]any, len(rec.Metadata)+3)
		for k, v := range rec.Metadata {
			payload[k] = v
		}
		payload["record_id"] = rec.ID
		payload["rel_path"] = file.RelPath
		payload["text"] = rec.Text

		points[i] = vectorstore.Point{
			ID:   pointID,
			Vec:  rec.Embedding,
			Meta: payload,
		}
	}

	for _, chunkRecord := range chunkRecords {
		if err := p.chunkRepo.Insert(ctx, chunkRecord); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	logger.InfoContext(ctx, "indexed document", "rel_path", file.RelPath, "chunks", len(chunks), "title", title)
	return nil
}

// IndexAll scans the corpus root and indexes every chunkable file. Errors
// for individual files are logged but don't stop the indexing process.
func (p *Pipeline) IndexAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := corpus.Scan(ctx, p.corpusRoot)
	if err != nil {
		return fmt.Errorf("failed to scan corpus: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_files", len(files))

	var successCount, errorCount int

	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.IndexFile(ctx, file); err != nil {
			errorCount++
			logger.ErrorContext(ctx, "failed to index file", "rel_path", file.RelPath, "error", err)
			continue
		}

		successCount++
	}

	logger.InfoContext(ctx, "indexing completed", "total_files", len(files), "success", successCount, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("indexing completed with %d errors", errorCount)
	}

	return nil
}

// ClearAll removes every indexed chunk from the vector store and every
// document (chunks cascade) from SQLite.
func (p *Pipeline) ClearAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	chunks, err := p.chunkRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	if len(chunks) > 0 {
		pointIDs := make([]string, len(chunks))
		for i, c := range chunks {
			pointIDs[i] = c.PointID
		}
		if err := p.vectorStore.Delete(ctx, p.collection, pointIDs); err != nil {
			return fmt.Errorf("failed to delete points from vector store: %w", err)
		}
	}

	if err := p.docRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	logger.InfoContext(ctx, "cleared index", "chunks_removed", len(chunks))
	return nil
}
