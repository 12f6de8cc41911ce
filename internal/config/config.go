package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Storage. A non-empty DATABASE_URL selects the Postgres engine,
	// otherwise the embedded SQLite store at SQLitePath is used.
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"data/ogelo.db"`
	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`

	// Embedding. EmbeddingDim is fixed for the lifetime of the store;
	// changing it after chunks exist invalidates similarity comparisons.
	EmbeddingDim int    `envconfig:"EMBEDDING_DIM" default:"384"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiEmbed  string `envconfig:"GEMINI_EMBED_MODEL" default:"gemini-embedding-001"`

	// Web augmentation.
	PerplexityAPIKey string `envconfig:"PERPLEXITY_API_KEY"`
	PerplexityURL    string `envconfig:"PERPLEXITY_URL" default:"https://api.perplexity.ai/chat/completions"`

	// Chunking.
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"50"`

	// Retrieval.
	SearchTopK          int     `envconfig:"SEARCH_TOP_K" default:"3"`
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.3"`

	// Context assembly.
	HistoryLimit          int `envconfig:"HISTORY_LIMIT" default:"2"`
	HistoryUserChars      int `envconfig:"HISTORY_USER_CHARS" default:"100"`
	HistoryAssistantChars int `envconfig:"HISTORY_ASSISTANT_CHARS" default:"150"`
	MaxContextChars       int `envconfig:"MAX_CONTEXT_CHARS" default:"4000"`

	// Ingestion queue. Empty NSQDHost means documents are ingested
	// inline in the upload request instead of via the queue.
	NSQDHost   string `envconfig:"NSQD_HOST"`
	NSQLookupd string `envconfig:"NSQ_LOOKUPD"`

	// Server.
	ServerPort      int    `envconfig:"SERVER_PORT" default:"8081"`
	QueryLogPath    string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`
	MaxUploadSizeMB int64  `envconfig:"MAX_UPLOAD_SIZE_MB" default:"50"`
}

// Capabilities describes which optional backends are usable, computed
// once at startup and passed down instead of probed at call sites.
type Capabilities struct {
	HasLearnedEmbedder  bool
	HasLearnedGenerator bool
	HasWebAugmentation  bool
	HasIngestQueue      bool
}

func Load() (*Config, error) {
	// Env vars may be set in the shell; a missing .env is fine.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	_ = godotenv.Load(filepath.Join(cwd, "../.env"))

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive", ErrInvalid)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: CHUNK_OVERLAP must not be negative", ErrInvalid)
	}
	// The fallback embedder reserves dimensions 0 and 1 and hashes
	// words into [2, dim-1].
	if c.EmbeddingDim < 3 {
		return fmt.Errorf("%w: EMBEDDING_DIM must be at least 3", ErrInvalid)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: SIMILARITY_THRESHOLD must be within [-1, 1]", ErrInvalid)
	}
	if c.SearchTopK <= 0 {
		return fmt.Errorf("%w: SEARCH_TOP_K must be positive", ErrInvalid)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: HISTORY_LIMIT must not be negative", ErrInvalid)
	}
	return nil
}

func (c *Config) Capabilities() Capabilities {
	return Capabilities{
		HasLearnedEmbedder:  c.GeminiAPIKey != "",
		HasLearnedGenerator: c.GeminiAPIKey != "",
		HasWebAugmentation:  c.PerplexityAPIKey != "",
		HasIngestQueue:      c.NSQDHost != "",
	}
}
