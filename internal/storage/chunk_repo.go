package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks ragkit/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// Insert inserts a single chunk into the database.
	// The chunk.PointID must be set (UUID) before calling this method.
	Insert(ctx context.Context, chunk *ChunkRecord) error
	// DeleteByDocument deletes all chunks for a given document ID.
	DeleteByDocument(ctx context.Context, documentID string) error
	// ListPointIDsByDocument returns all chunk point IDs for a document,
	// ordered by chunk_index.
	ListPointIDsByDocument(ctx context.Context, documentID string) ([]string, error)
	// GetByRecordID gets a chunk by its addressable record ID.
	// Returns ErrNotFound if not found.
	GetByRecordID(ctx context.Context, recordID string) (*ChunkRecord, error)
	// ListAll returns every stored chunk, ordered by document and index.
	ListAll(ctx context.Context) ([]*ChunkRecord, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk into the database.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chunks (point_id, record_id, document_id, chunk_index, section, text, token_count) VALUES (?, ?, ?, ?, ?, ?, ?)",
		chunk.PointID, chunk.RecordID, chunk.DocumentID, chunk.ChunkIndex, chunk.Section, chunk.Text, chunk.TokenCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// DeleteByDocument deletes all chunks for a given document ID.
// Used when re-indexing a document to remove stale chunks first.
func (r *ChunkRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by document: %w", err)
	}
	return nil
}

// ListPointIDsByDocument returns all chunk point IDs for a document, ordered
// by chunk_index. Returns an empty slice if no chunks exist (not an error).
// Used to collect vector store point IDs for deletion before re-indexing.
func (r *ChunkRepo) ListPointIDsByDocument(ctx context.Context, documentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT point_id FROM chunks WHERE document_id = ? ORDER BY chunk_index",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk point IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk point ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// GetByRecordID gets a chunk by its addressable record ID.
// Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByRecordID(ctx context.Context, recordID string) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT point_id, record_id, document_id, chunk_index, section, text, token_count FROM chunks WHERE record_id = ?",
		recordID,
	).Scan(&chunk.PointID, &chunk.RecordID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Section, &chunk.Text, &chunk.TokenCount)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &chunk, nil
}

// ListAll returns every stored chunk, ordered by document and index.
// Used by the coverage statistics computation.
func (r *ChunkRepo) ListAll(ctx context.Context) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT point_id, record_id, document_id, chunk_index, section, text, token_count FROM chunks ORDER BY document_id, chunk_index",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []*ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		if err := rows.Scan(&chunk.PointID, &chunk.RecordID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Section, &chunk.Text, &chunk.TokenCount); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}
