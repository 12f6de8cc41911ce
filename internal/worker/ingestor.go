package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ogelo/backend/internal/text"
)

// Ingestor chunks a document, embeds every chunk, and writes the
// rows. It is shared by the queue consumer and the inline upload
// path.
type Ingestor struct {
	embedder  Embedder
	writer    ChunkWriter
	chunkSize int
	overlap   int
}

func NewIngestor(e Embedder, w ChunkWriter, chunkSize, overlap int) *Ingestor {
	return &Ingestor{embedder: e, writer: w, chunkSize: chunkSize, overlap: overlap}
}

// Ingest returns the number of chunks stored. The first failed write
// stops the loop; chunks written before it are kept, so a retried
// document may hold duplicate rows. Brute-force search tolerates
// that, losing already-written work would not be better.
func (i *Ingestor) Ingest(ctx context.Context, sourceID, raw string) (int, error) {
	cleaned := text.Clean(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("document %s has no text content", sourceID)
	}

	chunks := text.Split(cleaned, i.chunkSize, i.overlap)
	for idx, chunk := range chunks {
		vec := i.embedder.Embed(ctx, chunk)
		if err := i.writer.StoreChunk(ctx, sourceID, chunk, idx, vec); err != nil {
			slog.ErrorContext(ctx, "storing chunk failed", "source_id", sourceID, "chunk_index", idx, "error", err)
			return idx, fmt.Errorf("storing chunk %d of %s: %w", idx, sourceID, err)
		}
	}

	slog.InfoContext(ctx, "document ingested", "source_id", sourceID, "chunks", len(chunks))
	return len(chunks), nil
}
