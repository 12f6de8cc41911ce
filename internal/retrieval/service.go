// Package retrieval turns a user query into relevant document context
// via embedding and brute-force similarity search.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ogelo/backend/internal/store"
)

type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

type Searcher interface {
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]store.SimilarityHit, error)
}

type Service struct {
	embedder  Embedder
	searcher  Searcher
	topK      int
	threshold float64
	logger    *QueryLogger
}

func NewService(e Embedder, s Searcher, topK int, threshold float64, l *QueryLogger) *Service {
	return &Service{embedder: e, searcher: s, topK: topK, threshold: threshold, logger: l}
}

// RelevantContext embeds the query, scans the store, and keeps hits
// strictly above the similarity threshold. It returns the joined
// context body plus one attribution label per kept hit, aligned by
// index. A store failure degrades to an empty result so the chat path
// can still answer from the model alone.
func (s *Service) RelevantContext(ctx context.Context, query string) (string, []string) {
	start := time.Now()

	vec := s.embedder.Embed(ctx, query)

	hits, err := s.searcher.Search(ctx, vec, s.topK)
	if err != nil {
		slog.ErrorContext(ctx, "similarity search failed", "error", err)
		return "", []string{}
	}

	var parts []string
	sources := []string{}
	for _, h := range hits {
		if h.Score <= s.threshold {
			continue
		}
		parts = append(parts, fmt.Sprintf("From %s: %s", h.SourceID, h.Text))
		sources = append(sources, fmt.Sprintf("%s (similarity: %.2f)", h.SourceID, h.Score))
	}

	if s.logger != nil {
		s.logger.Log(QueryLogEntry{
			Query:      query,
			NumResults: len(sources),
			Duration:   time.Since(start),
		})
	}

	return strings.Join(parts, "\n\n"), sources
}
