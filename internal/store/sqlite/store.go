// Package sqlite implements the embedded, file-backed chunk store on
// modernc.org/sqlite. It is the default engine when no DATABASE_URL
// is configured.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"ogelo/backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id TEXT NOT NULL,
	content TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	embedding BLOB NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_id);

CREATE TABLE IF NOT EXISTS conversations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_message TEXT NOT NULL,
	assistant_response TEXT NOT NULL,
	context_used TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

type Store struct {
	db   *sql.DB
	dim  int
	path string
}

// New opens (or creates) the database file and ensures the schema.
// WAL mode and a busy timeout let one session ingest while another
// queries. dim is the fixed embedding length; StoreChunk rejects
// vectors of any other length.
func New(path string, dim int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return &Store{db: db, dim: dim, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) StoreChunk(ctx context.Context, sourceID, text string, chunkIndex int, embedding []float32) error {
	if len(embedding) != s.dim {
		return fmt.Errorf("embedding length %d does not match store dimension %d", len(embedding), s.dim)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (source_id, content, chunk_index, embedding) VALUES (?, ?, ?, ?)`,
		sourceID, text, chunkIndex, store.EncodeEmbedding(embedding))
	if err != nil {
		return fmt.Errorf("storing chunk: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]store.SimilarityHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, content, embedding FROM documents ORDER BY id`)
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_message, assistant_response, context_used) VALUES (?, ?, ?)`,
		userMessage, assistantResponse, contextUsed)
	if err != nil {
		return fmt.Errorf("storing conversation: %w", err)
	}
	return nil
}

func (s *Store) RecentConversations(ctx context.Context, limit int) ([]store.ConversationTurn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_message, assistant_response, COALESCE(context_used, ''), created_at
		 FROM conversations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
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
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT source_id) FROM documents`).Scan(&st.UniqueDocuments); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&st.TotalChunks); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&st.TotalConversations); err != nil {
		return st, err
	}
	return st, nil
}
