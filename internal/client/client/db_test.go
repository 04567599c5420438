package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))
	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "cards"))
	assert.True(t, tableExists(t, db, "settings"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run must be a no-op")
	assert.True(t, tableExists(t, db, "cards"))
}

func TestNewRepositories_WorkOnMigratedDB(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	repos := NewRepositories(db)

	c := models.NewCard(time.Now())
	c.FirstName, c.LastName, c.Position, c.Department, c.EmployeeID = "Max", "Muster", "Dev", "it", "1"
	require.NoError(t, repos.Cards.Insert(ctx, c))

	all, err := repos.Cards.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repos.Settings.Set(ctx, "company.name", "Muster GmbH"))
	v, ok, err := repos.Settings.Get(ctx, "company.name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Muster GmbH", v)
}
