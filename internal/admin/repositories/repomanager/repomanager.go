// Package repomanager vends the Postgres repositories of the admin tool and
// runs the schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/employcd/employcd/internal/admin/migrations"
	"github.com/employcd/employcd/internal/admin/repositories/subscriptions"
	"github.com/employcd/employcd/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

type PostgresRepositoryManager struct{}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Subscriptions returns a repository bound to db, which may be a transaction.
func (m *PostgresRepositoryManager) Subscriptions(db dbx.DBTX) subscriptions.Repository {
	return subscriptions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
