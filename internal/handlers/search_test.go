package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	indexer_mocks "ragkit/internal/indexer/mocks"
	"ragkit/internal/vectorstore"
	vectorstore_mocks "ragkit/internal/vectorstore/mocks"
)

func TestSearchHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		setupMocks func(*indexer_mocks.MockEmbedder, *vectorstore_mocks.MockVectorStore)
		wantStatus int
		wantCount  int
	}{
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			body:       "",
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON",
			method:     http.MethodPost,
			body:       "{broken",
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing query",
			method:     http.MethodPost,
			body:       `{"k":5}`,
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "embedder failure",
			method: http.MethodPost,
			body:   `{"query":"ladder inspection"}`,
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {
				e.EXPECT().EmbedTexts(gomock.Any(), []string{"ladder inspection"}).
					Return(nil, errors.New("model not loaded"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "vector store failure",
			method: http.MethodPost,
			body:   `{"query":"ladder inspection"}`,
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {
				e.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).
					Return([][]float32{{0.1, 0.2}}, nil)
				v.EXPECT().Search(gomock.Any(), "docs", []float32{0.1, 0.2}, DefaultSearchK, gomock.Any()).
					Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "successful search with default k",
			method: http.MethodPost,
			body:   `{"query":"ladder inspection"}`,
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {
				e.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).
					Return([][]float32{{0.1, 0.2}}, nil)
				v.EXPECT().Search(gomock.Any(), "docs", []float32{0.1, 0.2}, DefaultSearchK, gomock.Any()).
					Return([]vectorstore.SearchResult{
						{PointID: "p1", Score: 0.92, Meta: map[string]any{"record_id": "ladders:Main:001"}},
						{PointID: "p2", Score: 0.81, Meta: map[string]any{"record_id": "ladders:Main:002"}},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:   "custom k and filters",
			method: http.MethodPost,
			body:   `{"query":"ppe rules","k":3,"filters":{"section":"PPE"}}`,
			setupMocks: func(e *indexer_mocks.MockEmbedder, v *vectorstore_mocks.MockVectorStore) {
				e.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).
					Return([][]float32{{0.3}}, nil)
				v.EXPECT().Search(gomock.Any(), "docs", []float32{0.3}, 3, map[string]any{"section": "PPE"}).
					Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			embedder := indexer_mocks.NewMockEmbedder(ctrl)
			vectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
			tt.setupMocks(embedder, vectorStore)

			handler := NewSearchHandler(embedder, vectorStore, "docs")

			req := httptest.NewRequest(tt.method, "/api/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp SearchResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Count != tt.wantCount {
					t.Errorf("count = %d, want %d", resp.Count, tt.wantCount)
				}
			}
		})
	}
}
