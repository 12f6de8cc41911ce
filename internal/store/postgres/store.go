// Package postgres implements the client-server chunk store on
// lib/pq. It is selected when DATABASE_URL is configured; the schema
// is managed by golang-migrate at startup rather than on open.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ogelo/backend/internal/store"
)

type Store struct {
	db  *sql.DB
	dim int
}

// New wraps an already-opened connection pool. dim is the fixed
// embedding length; StoreChunk rejects vectors of any other length.
func New(db *sql.DB, dim int) *Store {
	return &Store{db: db, dim: dim}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) StoreChunk(ctx context.Context, sourceID, text string, chunkIndex int, embedding []float32) error {
	if len(embedding) != s.dim {
		return fmt.Errorf("embedding length %d does not match store dimension %d", len(embedding), s.dim)
	}

	query := `INSERT INTO documents (source_id, content, chunk_index, embedding) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query, sourceID, text, chunkIndex, store.EncodeEmbedding(embedding))
	if err != nil {
		return fmt.Errorf("storing chunk: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]store.SimilarityHit, error) {
	query := `SELECT source_id, content, embedding FROM documents ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	defer rows.Close()

	var candidates []store.Candidate
	for rows.Next() {
		var c store.Candidate
		var blob []byte
		if err := rows.Scan(&c.SourceID, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = store.DecodeEmbedding(blob)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return store.TopK(queryEmbedding, candidates, topK), nil
}

func (s *Store) StoreConversation(ctx context.Context, userMessage, assistantResponse, contextUsed string) error {
	query := `INSERT INTO conversations (user_message, assistant_response, context_used) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, userMessage, assistantResponse, contextUsed)
	if err != nil {
		return fmt.Errorf("storing conversation: %w", err)
	}
	return nil
}

func (s *Store) RecentConversations(ctx context.Context, limit int) ([]store.ConversationTurn, error) {
	query := `SELECT user_message, assistant_response, COALESCE(context_used, ''), created_at FROM conversations ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("loading conversations: %w", err)
	}
	defer rows.Close()

	var turns []store.ConversationTurn
	for rows.Next() {
		var t store.ConversationTurn
		if err := rows.Scan(&t.UserMessage, &t.AssistantResponse, &t.ContextUsed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *Store) DocumentCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT source_id) FROM documents`).Scan(&count)
	return count, err
}

func (s *Store) ClearDocuments(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents`)
	return err
}

func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	var st store.Stats
	query := `SELECT COUNT(DISTINCT source_id), COUNT(*) FROM documents`
	if err := s.db.QueryRowContext(ctx, query).Scan(&st.UniqueDocuments, &st.TotalChunks); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&st.TotalConversations); err != nil {
		return st, err
	}
	return st, nil
}
