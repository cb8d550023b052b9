package handlers

import (
	"net/http"

	"ragkit/internal/contextutil"
	"ragkit/internal/indexer"
)

// StatsHandler handles HTTP requests for indexing coverage statistics.
type StatsHandler struct {
	pipeline           *indexer.Pipeline
	embeddingModelName string
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(pipeline *indexer.Pipeline, embeddingModelName string) *StatsHandler {
	return &StatsHandler{
		pipeline:           pipeline,
		embeddingModelName: embeddingModelName,
	}
}

// ServeHTTP handles HTTP requests for indexing coverage statistics.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.pipeline.GetIndexingCoverageStats(ctx, h.embeddingModelName)
	if err != nil {
		logger.ErrorContext(ctx, "failed to compute coverage stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute coverage stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
