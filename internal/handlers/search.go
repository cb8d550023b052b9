package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ragkit/internal/contextutil"
	"ragkit/internal/indexer"
	"ragkit/internal/vectorstore"
)

// DefaultSearchK is the number of results returned when the request does
// not specify one.
const DefaultSearchK = 8

// SearchHandler handles HTTP requests for semantic chunk search.
type SearchHandler struct {
	embedder    indexer.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(embedder indexer.Embedder, vectorStore vectorstore.VectorStore, collection string) *SearchHandler {
	return &SearchHandler{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
	}
}

// SearchRequest represents a search request. Filters match payload fields
// exactly (slug, section, doc_type, jurisdiction).
type SearchRequest struct {
	Query   string         `json:"query"`
	K       int            `json:"k,omitempty"`
	Filters map[string]any `json:"filters,omitempty"`
}

// SearchResultItem is a single search hit.
type SearchResultItem struct {
	PointID string         `json:"point_id"`
	Score   float32        `json:"score"`
	Meta    map[string]any `json:"meta"`
}

// SearchResponse represents the search result list.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Count   int                `json:"count"`
}

// ServeHTTP handles HTTP requests for semantic chunk search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Field 'query' is required")
		return
	}

	k := req.K
	if k <= 0 {
		k = DefaultSearchK
	}

	vectors, err := h.embedder.EmbedTexts(ctx, []string{req.Query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to embed query")
		return
	}
	if len(vectors) != 1 {
		logger.ErrorContext(ctx, "unexpected embedding count", "count", len(vectors))
		writeError(w, http.StatusBadGateway, "Failed to embed query")
		return
	}

	results, err := h.vectorStore.Search(ctx, h.collection, vectors[0], k, req.Filters)
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed", "error", err)
		writeError(w, http.StatusBadGateway, "Vector search failed")
		return
	}

	items := make([]SearchResultItem, len(results))
	for i, res := range results {
		items[i] = SearchResultItem{
			PointID: res.PointID,
			Score:   res.Score,
			Meta:    res.Meta,
		}
	}

	logger.InfoContext(ctx, "search completed", "results", len(items), "k", k)
	writeJSON(w, http.StatusOK, SearchResponse{Results: items, Count: len(items)})
}
