// Package documents handles uploads, corpus statistics, and the
// bulk-clear and conversation listing endpoints.
package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ogelo/backend/internal/extract"
	"ogelo/backend/internal/middleware"
	"ogelo/backend/internal/store"
	"ogelo/backend/internal/worker"
)

// Publisher is the queue seam; *nsq.Producer satisfies it.
type Publisher interface {
	Publish(topic string, body []byte) error
}

type Ingestor interface {
	Ingest(ctx context.Context, sourceID, text string) (int, error)
}

type Store interface {
	RecentConversations(ctx context.Context, limit int) ([]store.ConversationTurn, error)
	ClearDocuments(ctx context.Context) error
	Stats(ctx context.Context) (store.Stats, error)
}

type Service struct {
	store     Store
	ingestor  Ingestor
	publisher Publisher
}

func NewService(s Store, i Ingestor, p Publisher) *Service {
	return &Service{store: s, ingestor: i, publisher: p}
}

// UploadResult reports how an upload was handled. Queued uploads have
// Chunks 0 because chunking happens in the worker.
type UploadResult struct {
	SourceID string `json:"source_id"`
	Queued   bool   `json:"queued"`
	Chunks   int    `json:"chunks"`
}

// Upload extracts text and either queues it for the ingest worker or,
// without a queue, ingests inline before returning.
func (s *Service) Upload(ctx context.Context, filename string, file io.Reader) (UploadResult, error) {
	text := extract.FromFile(filename, file)
	if strings.TrimSpace(text) == "" {
		return UploadResult{}, fmt.Errorf("no text content found in %s", filename)
	}

	if s.publisher != nil {
		payload, err := json.Marshal(worker.IngestPayload{
			SourceID:      filename,
			Text:          text,
			CorrelationID: middleware.GetCorrelationID(ctx),
		})
		if err != nil {
			return UploadResult{}, err
		}
		if err := s.publisher.Publish(worker.TopicIngest, payload); err != nil {
			slog.ErrorContext(ctx, "queueing ingest failed, falling back to inline", "error", err)
		} else {
			return UploadResult{SourceID: filename, Queued: true}, nil
		}
	}

	chunks, err := s.ingestor.Ingest(ctx, filename, text)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{SourceID: filename, Chunks: chunks}, nil
}

func (s *Service) Stats(ctx context.Context) (store.Stats, error) {
	return s.store.Stats(ctx)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearDocuments(ctx)
}

func (s *Service) Conversations(ctx context.Context, limit int) ([]store.ConversationTurn, error) {
	return s.store.RecentConversations(ctx, limit)
}
