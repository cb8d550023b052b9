package handlers

import (
	"context"
	"net/http"

	"ragkit/internal/contextutil"
	"ragkit/internal/indexer"
)

// IndexHandler handles HTTP requests for triggering re-indexing.
type IndexHandler struct {
	pipeline *indexer.Pipeline
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(pipeline *indexer.Pipeline) *IndexHandler {
	return &IndexHandler{pipeline: pipeline}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles HTTP requests for triggering re-indexing.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	if force {
		logger.InfoContext(ctx, "force re-indexing triggered via API")
	} else {
		logger.InfoContext(ctx, "re-indexing triggered via API")
	}

	// Trigger indexing in a goroutine so it doesn't block the HTTP response.
	// Use background context so indexing continues after the request completes.
	go func() {
		indexCtx := context.Background()
		if force {
			if err := h.pipeline.ClearAll(indexCtx); err != nil {
				logger.ErrorContext(indexCtx, "failed to clear existing data", "error", err)
				return
			}
			logger.InfoContext(indexCtx, "cleared all existing indexed data")
		}
		if err := h.pipeline.IndexAll(indexCtx); err != nil {
			logger.ErrorContext(indexCtx, "re-indexing completed with errors", "error", err)
		} else {
			logger.InfoContext(indexCtx, "re-indexing completed successfully")
		}
	}()

	message := "Indexing started. Check server logs for progress."
	if force {
		message = "Force re-indexing started (all existing data cleared). Check server logs for progress."
	}
	writeJSON(w, http.StatusAccepted, IndexResponse{
		Message: message,
		Status:  "accepted",
	})
}
