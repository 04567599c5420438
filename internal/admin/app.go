// Package admin wires the subscription administration tool: the GoTrue admin
// client, the Postgres connection and the subscription service.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/employcd/employcd/internal/admin/config"
	"github.com/employcd/employcd/internal/admin/gotrue"
	"github.com/employcd/employcd/internal/admin/repositories/repomanager"
	"github.com/employcd/employcd/internal/admin/services"
	"github.com/employcd/employcd/internal/logging"
)

// App is a SubscriptionService that owns its database handle.
type App struct {
	*services.SubscriptionService
	db *sql.DB
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, cfg.LogLevel, logging.FormatText)

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	users := gotrue.NewClient(cfg.SupabaseURL, cfg.ServiceKey, &http.Client{Timeout: cfg.RequestTimeout})
	svc := services.NewSubscriptionService(db, users, repomanager.NewPostgresRepositoryManager(), logger.With("module", "admin"))

	return &App{SubscriptionService: svc, db: db}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
