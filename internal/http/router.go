package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ragkit/internal/chunk"
	"ragkit/internal/handlers"
	"ragkit/internal/indexer"
	"ragkit/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	TokenCounter       chunk.TokenCounter
	ChunkTargetTokens  int
	ChunkOverlapTokens int
	Pipeline           *indexer.Pipeline
	Embedder           indexer.Embedder
	VectorStore        vectorstore.VectorStore
	Collection         string
	EmbeddingModelName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chunkHandler := handlers.NewChunkHandler(deps.TokenCounter, deps.ChunkTargetTokens, deps.ChunkOverlapTokens)
	indexHandler := handlers.NewIndexHandler(deps.Pipeline)
	searchHandler := handlers.NewSearchHandler(deps.Embedder, deps.VectorStore, deps.Collection)
	statsHandler := handlers.NewStatsHandler(deps.Pipeline, deps.EmbeddingModelName)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chunk", chunkHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
