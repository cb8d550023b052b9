package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ragkit/internal/chunk"
	"ragkit/internal/contextutil"
	"ragkit/internal/docmeta"
)

// ChunkHandler handles HTTP requests for ad-hoc text chunking. It runs the
// chunking core only: no embeddings, no persistence.
type ChunkHandler struct {
	counter        chunk.TokenCounter
	defaultTarget  int
	defaultOverlap int
}

// NewChunkHandler creates a new ChunkHandler. The counter is shared across
// requests; target and overlap are per-request overridable defaults.
func NewChunkHandler(counter chunk.TokenCounter, defaultTarget, defaultOverlap int) *ChunkHandler {
	return &ChunkHandler{
		counter:        counter,
		defaultTarget:  defaultTarget,
		defaultOverlap: defaultOverlap,
	}
}

// ChunkRequest represents a chunking request.
type ChunkRequest struct {
	Text      string `json:"text"`
	Title     string `json:"title,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Section   string `json:"section,omitempty"`
	ChunkSize int    `json:"chunk_size,omitempty"`
	Overlap   int    `json:"overlap,omitempty"`
}

// ChunkResponse represents the chunking result.
type ChunkResponse struct {
	Records []chunk.Record `json:"records"`
	Count   int            `json:"count"`
}

// ServeHTTP handles HTTP requests for ad-hoc text chunking.
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Field 'text' is required")
		return
	}

	target := req.ChunkSize
	if target == 0 {
		target = h.defaultTarget
	}
	overlap := req.Overlap
	if overlap == 0 {
		overlap = h.defaultOverlap
	}

	packer, err := chunk.NewPacker(h.counter, target, overlap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := req.Slug
	if name == "" {
		name = chunk.DefaultSlug
	}
	meta, section := docmeta.Build(name+".txt", []byte(req.Text), docmeta.Overrides{
		Title:   req.Title,
		Slug:    req.Slug,
		Section: req.Section,
	})

	chunks := packer.PackText(req.Text)
	records := chunk.BuildRecords(chunks, meta, section, nil)
	if records == nil {
		records = []chunk.Record{}
	}

	logger.InfoContext(ctx, "chunked text", "chunks", len(records), "target", target, "overlap", overlap)
	writeJSON(w, http.StatusOK, ChunkResponse{Records: records, Count: len(records)})
}
