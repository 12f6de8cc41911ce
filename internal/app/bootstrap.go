// Package app wires configuration to concrete storage and queue
// backends at startup.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/nsqio/go-nsq"

	"ogelo/backend/internal/config"
	"ogelo/backend/internal/store"
	pgstore "ogelo/backend/internal/store/postgres"
	"ogelo/backend/internal/store/sqlite"
	"ogelo/backend/internal/worker"
)

const (
	pingAttempts = 10
	pingDelay    = 2 * time.Second
)

type Dependencies struct {
	Store store.ChunkStore

	// NSQProducer is nil when no queue is configured; uploads then
	// ingest inline.
	NSQProducer *nsq.Producer
}

// Bootstrap selects the storage engine from configuration: a
// DATABASE_URL means Postgres with migrations, otherwise the embedded
// SQLite file. Engine choice changes deployment, never behavior.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	if cfg.DatabaseURL != "" {
		st, err := bootstrapPostgres(cfg)
		if err != nil {
			return nil, err
		}
		deps.Store = st
		slog.Info("storage engine selected", "engine", "postgres")
	} else {
		st, err := sqlite.New(cfg.SQLitePath, cfg.EmbeddingDim)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		deps.Store = st
		slog.Info("storage engine selected", "engine", "sqlite", "path", cfg.SQLitePath)
	}

	if cfg.NSQDHost != "" {
		producer, err := nsq.NewProducer(cfg.NSQDHost, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("nsq producer error: %w", err)
		}
		deps.NSQProducer = producer
		createTopics(cfg.NSQDHost)
	}

	return deps, nil
}

func bootstrapPostgres(cfg *config.Config) (*pgstore.Store, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err := db.Ping(); err == nil {
			break
		}
		slog.Warn("failed to ping db, retrying...", "attempt", i+1, "max_attempts", pingAttempts)
		time.Sleep(pingDelay)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver error: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration instance error: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("migration up error: %w", err)
	}
	slog.Info("migrations applied successfully")

	return pgstore.New(db, cfg.EmbeddingDim), nil
}

// createTopics pre-creates the ingest topic over nsqd's HTTP API so
// consumers querying lookupd do not 404 before the first publish.
func createTopics(nsqdHost string) {
	host, _, err := net.SplitHostPort(nsqdHost)
	if err != nil {
		host = nsqdHost
	}
	url := fmt.Sprintf("http://%s:4151/topic/create?topic=%s", host, worker.TopicIngest)

	go func() {
		time.Sleep(2 * time.Second)
		resp, err := http.Post(url, "application/json", nil) // #nosec G107 -- URL is built from internal NSQ config, not user input
		if err != nil {
			slog.Warn("failed to pre-create ingest topic", "error", err, "url", url)
			return
		}
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close NSQ topic creation response body", "error", closeErr)
		}
	}()
}
