// Package worker handles asynchronous document ingestion from the
// NSQ queue, with an inline path for queueless deployments.
package worker

import "context"

const (
	// TopicIngest carries extracted document text awaiting chunking.
	TopicIngest   = "ingest.task"
	ChannelIngest = "ingest"
)

// IngestPayload is the message published per uploaded document.
type IngestPayload struct {
	SourceID      string `json:"source_id"`
	Text          string `json:"text"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

type ChunkWriter interface {
	StoreChunk(ctx context.Context, sourceID, text string, chunkIndex int, embedding []float32) error
}
