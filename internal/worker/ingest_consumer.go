package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nsqio/go-nsq"

	"ogelo/backend/internal/middleware"
)

const ingestTimeout = 60 * time.Second

// IngestConsumer handles ingest.task messages.
type IngestConsumer struct {
	ingestor *Ingestor
}

func NewIngestConsumer(i *Ingestor) *IngestConsumer {
	return &IngestConsumer{ingestor: i}
}

func (h *IngestConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var payload IngestPayload
	if err := json.Unmarshal(m.Body, &payload); err != nil {
		// Poison pill: invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	ctx := context.Background()
	if payload.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, payload.CorrelationID)
	}

	ingestCtx, cancel := context.WithTimeout(ctx, ingestTimeout)
	defer cancel()

	if _, err := h.ingestor.Ingest(ingestCtx, payload.SourceID, payload.Text); err != nil {
		slog.ErrorContext(ctx, "ingestion failed", "source_id", payload.SourceID, "error", err)
		return err // Retry
	}
	return nil
}
