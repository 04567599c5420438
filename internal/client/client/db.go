package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/employcd/employcd/internal/client/migrations"
	"github.com/employcd/employcd/internal/client/repositories/cards"
	"github.com/employcd/employcd/internal/client/repositories/settings"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type Repositories struct {
	Cards    cards.Repository
	Settings settings.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Cards:    cards.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite database at dsn and brings its schema up to
// date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps :memory:
	// databases shared between statements.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
