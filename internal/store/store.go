// Package store defines the chunk and conversation storage contract
// shared by the embedded SQLite engine and the Postgres engine. Both
// engines are behaviourally identical; selection happens once at
// bootstrap based on configuration.
package store

import (
	"context"
	"time"
)

// Chunk is one indexed slice of a source document. (SourceID,
// ChunkIndex) identifies its logical position; the engines assign a
// surrogate row id. Embeddings are immutable after insertion:
// re-ingesting a source appends rows under a fresh SourceID.
type Chunk struct {
	SourceID   string
	ChunkIndex int
	Text       string
	Embedding  []float32
	CreatedAt  time.Time
}

// ConversationTurn is one user/assistant exchange. Turns are immutable
// once stored and retrieved most-recent-first.
type ConversationTurn struct {
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	ContextUsed       string    `json:"context_used,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// SimilarityHit is an ephemeral search result; Score is cosine
// similarity in [-1, 1].
type SimilarityHit struct {
	SourceID string
	Text     string
	Score    float64
}

type Stats struct {
	UniqueDocuments    int `json:"unique_documents"`
	TotalChunks        int `json:"total_chunks"`
	TotalConversations int `json:"total_conversations"`
}

// ChunkStore is the storage contract. Mutations are atomic at the row
// level; no multi-row transaction spans the chunks of one document, so
// a document may legitimately end up partially indexed when a later
// chunk write fails.
type ChunkStore interface {
	StoreChunk(ctx context.Context, sourceID, text string, chunkIndex int, embedding []float32) error

	// Search brute-force scans every stored chunk, scores it against
	// the query embedding by cosine similarity and returns the topK
	// best hits in descending score order, ties broken by insertion
	// order. An empty store yields an empty slice, not an error.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]SimilarityHit, error)

	StoreConversation(ctx context.Context, userMessage, assistantResponse, contextUsed string) error
	RecentConversations(ctx context.Context, limit int) ([]ConversationTurn, error)

	// DocumentCount counts distinct source ids, not chunks.
	DocumentCount(ctx context.Context) (int, error)

	// ClearDocuments deletes every chunk row; conversations are
	// unaffected.
	ClearDocuments(ctx context.Context) error

	Stats(ctx context.Context) (Stats, error)
	Close() error
}
