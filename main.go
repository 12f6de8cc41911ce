package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nsqio/go-nsq"

	"ogelo/backend/features/chat"
	"ogelo/backend/features/documents"
	"ogelo/backend/internal/app"
	"ogelo/backend/internal/assemble"
	"ogelo/backend/internal/augment"
	"ogelo/backend/internal/config"
	"ogelo/backend/internal/embedding"
	"ogelo/backend/internal/generate"
	"ogelo/backend/internal/logger"
	"ogelo/backend/internal/middleware"
	"ogelo/backend/internal/retrieval"
	"ogelo/backend/internal/worker"
)

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	caps := cfg.Capabilities()

	ctx := context.Background()
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.Store.Close()

	// Embedding: learned backend when a key is configured, hash
	// fallback always behind it.
	var learnedEmbedder embedding.LearnedEmbedder
	if caps.HasLearnedEmbedder {
		ge, err := embedding.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiEmbed)
		if err != nil {
			slog.Warn("gemini embedder unavailable, using hash fallback only", "error", err)
		} else {
			learnedEmbedder = ge
			defer ge.Close()
		}
	}
	embedder := embedding.NewService(learnedEmbedder, cfg.EmbeddingDim)

	// Generation mirrors the embedder: model when configured, rules
	// otherwise.
	var learnedGenerator generate.LearnedGenerator
	if caps.HasLearnedGenerator {
		gg, err := generate.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Warn("gemini generator unavailable, using rule-based fallback only", "error", err)
		} else {
			learnedGenerator = gg
			defer gg.Close()
		}
	}
	generator := generate.NewService(learnedGenerator)

	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}
	retriever := retrieval.NewService(embedder, deps.Store, cfg.SearchTopK, cfg.SimilarityThreshold, queryLogger)

	var web *augment.Perplexity
	if caps.HasWebAugmentation {
		web = augment.NewPerplexity(cfg.PerplexityAPIKey, cfg.PerplexityURL)
	}
	augmenter := augment.NewComposite(web, augment.NewKnowledge())

	assembler := assemble.New(retriever, deps.Store, augmenter,
		cfg.HistoryLimit, cfg.HistoryUserChars, cfg.HistoryAssistantChars, cfg.MaxContextChars)

	ingestor := worker.NewIngestor(embedder, deps.Store, cfg.ChunkSize, cfg.ChunkOverlap)

	// Feature: chat
	chatHandler := chat.NewHandler(chat.NewService(assembler, generator, deps.Store, cfg.HistoryLimit))

	// Feature: documents
	var publisher documents.Publisher
	if deps.NSQProducer != nil {
		publisher = deps.NSQProducer
	}
	docsService := documents.NewService(deps.Store, ingestor, publisher)
	docsHandler := documents.NewHandler(docsService, int(cfg.MaxUploadSizeMB))

	// Worker: queue consumer, when lookupd is configured.
	if caps.HasIngestQueue && cfg.NSQLookupd != "" {
		ingestConsumer := worker.NewIngestConsumer(ingestor)
		consumer, err := nsq.NewConsumer(worker.TopicIngest, worker.ChannelIngest, nsq.NewConfig())
		if err != nil {
			slog.Error("failed to create NSQ consumer", "error", err)
		} else {
			consumer.AddHandler(nsq.HandlerFunc(ingestConsumer.HandleMessage))
			if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
				slog.Error("failed to connect to NSQLookupd", "error", err)
			} else {
				slog.Info("NSQ ingest consumer connected")
			}
		}
	}

	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	http.Handle("POST /chat", middleware.CorrelationID(enableCORS(chatHandler.Exchange)))
	http.Handle("POST /documents", middleware.CorrelationID(enableCORS(docsHandler.Upload)))
	http.Handle("DELETE /documents", middleware.CorrelationID(enableCORS(docsHandler.Clear)))
	http.Handle("GET /stats", middleware.CorrelationID(enableCORS(docsHandler.GetStats)))
	http.Handle("GET /conversations", middleware.CorrelationID(enableCORS(docsHandler.ListConversations)))

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	slog.Info("server starting", "port", cfg.ServerPort,
		"learned_embedder", caps.HasLearnedEmbedder,
		"web_augmentation", caps.HasWebAugmentation,
		"ingest_queue", caps.HasIngestQueue)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.ServerPort), nil); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
