package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var configEnvVars = []string{
	"CORPUS_PATH", "DB_PATH",
	"CHUNK_TARGET_TOKENS", "CHUNK_OVERLAP_TOKENS", "TOKENIZER_ENCODING",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME", "EMBEDDING_API_KEY",
	"QDRANT_URL", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT",
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	for _, key := range configEnvVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with all required fields",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.CorpusPath != "" && cfg.QdrantVectorSize == 768
			},
		},
		{
			name: "missing CORPUS_PATH",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "768")
			},
			wantErr: true,
		},
		{
			name: "missing QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
			},
			wantErr: true,
		},
		{
			name: "invalid QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "default values for optional fields",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.ChunkTargetTokens == 280 &&
					cfg.ChunkOverlapTokens == 40 &&
					cfg.TokenizerEncoding == "cl100k_base" &&
					cfg.EmbeddingBaseURL == "http://localhost:8081" &&
					cfg.EmbeddingModelName == "granite-embedding-278m-multilingual" &&
					cfg.DBPath == "./data/ragkit.db" &&
					cfg.QdrantURL == "http://localhost:6333" &&
					cfg.QdrantCollection == "documents" &&
					cfg.APIPort == "9000" &&
					cfg.LogLevel == "info" &&
					cfg.LogFormat == "text"
			},
		},
		{
			name: "custom chunking parameters",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
				setEnv("CHUNK_TARGET_TOKENS", "500")
				setEnv("CHUNK_OVERLAP_TOKENS", "80")
				setEnv("TOKENIZER_ENCODING", "o200k_base")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.ChunkTargetTokens == 500 &&
					cfg.ChunkOverlapTokens == 80 &&
					cfg.TokenizerEncoding == "o200k_base"
			},
		},
		{
			name: "invalid CHUNK_TARGET_TOKENS",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
				setEnv("CHUNK_TARGET_TOKENS", "not-a-number")
			},
			wantErr: true,
		},
		{
			name: "zero CHUNK_TARGET_TOKENS",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
				setEnv("CHUNK_TARGET_TOKENS", "0")
			},
			wantErr: true,
		},
		{
			name: "overlap not smaller than target",
			setupEnv: func(t *testing.T) {
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
				setEnv("CHUNK_TARGET_TOKENS", "100")
				setEnv("CHUNK_OVERLAP_TOKENS", "100")
			},
			wantErr: true,
		},
		{
			name: "custom optional values",
			setupEnv: func(t *testing.T) {
				tmpDir := t.TempDir()
				setEnv("CORPUS_PATH", t.TempDir())
				setEnv("QDRANT_VECTOR_SIZE", "768")
				setEnv("EMBEDDING_BASE_URL", "http://custom:9090")
				setEnv("EMBEDDING_MODEL_NAME", "custom-model")
				customDBPath := filepath.Join(tmpDir, "custom", "db.db")
				setEnv("DB_PATH", customDBPath)
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.EmbeddingBaseURL == "http://custom:9090" &&
					cfg.EmbeddingModelName == "custom-model" &&
					filepath.Base(cfg.DBPath) == "db.db" // Just check filename, path will vary with temp dir
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Change to a temp directory without .env file to avoid loading it
			tmpDir := t.TempDir()
			originalWd, _ := os.Getwd()
			_ = os.Chdir(tmpDir) // Ignore error - test will fail if this doesn't work
			defer func() {
				_ = os.Chdir(originalWd) // Ignore error in cleanup
			}()

			// Clean up env vars before each test
			for _, key := range configEnvVars {
				unsetEnv(key)
			}
			defer func() {
				for key, value := range originalEnv {
					if value != "" {
						setEnv(key, value)
					} else {
						unsetEnv(key)
					}
				}
			}()

			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed")
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	originalEnv := make(map[string]string)
	for _, key := range configEnvVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test", "db.db")

	setEnv("CORPUS_PATH", t.TempDir())
	setEnv("QDRANT_VECTOR_SIZE", "768")
	setEnv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}
