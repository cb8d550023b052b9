package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	vectorstore_mocks "ragkit/internal/vectorstore/mocks"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		setupMocks func(*vectorstore_mocks.MockVectorStore)
		wantStatus int
		wantHealth string
	}{
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			setupMocks: func(v *vectorstore_mocks.MockVectorStore) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:   "healthy",
			method: http.MethodGet,
			setupMocks: func(v *vectorstore_mocks.MockVectorStore) {
				v.EXPECT().CollectionExists(gomock.Any(), "docs").Return(true, nil)
			},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:   "vector store unreachable",
			method: http.MethodGet,
			setupMocks: func(v *vectorstore_mocks.MockVectorStore) {
				v.EXPECT().CollectionExists(gomock.Any(), "docs").Return(false, errors.New("connection refused"))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:   "collection missing",
			method: http.MethodGet,
			setupMocks: func(v *vectorstore_mocks.MockVectorStore) {
				v.EXPECT().CollectionExists(gomock.Any(), "docs").Return(false, nil)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			vectorStore := vectorstore_mocks.NewMockVectorStore(ctrl)
			tt.setupMocks(vectorStore)

			handler := NewHealthHandler(vectorStore, "docs")

			req := httptest.NewRequest(tt.method, "/api/health", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantHealth != "" {
				var resp HealthResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Status != tt.wantHealth {
					t.Errorf("health status = %q, want %q", resp.Status, tt.wantHealth)
				}
				if resp.Timestamp == "" {
					t.Error("timestamp should be set")
				}
			}
		})
	}
}
