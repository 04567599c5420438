package cards

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE cards (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  position TEXT NOT NULL,
  department TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  issue_date TEXT NOT NULL,
  expiry_date TEXT NOT NULL,
  photo_path TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func card(id, first, last, dept string, created time.Time) *models.Card {
	return &models.Card{
		ID:         id,
		FirstName:  first,
		LastName:   last,
		Position:   "Entwickler",
		Department: dept,
		EmployeeID: "EMP-" + id,
		IssueDate:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
		ExpiryDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local),
		CreatedAt:  created,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	created := time.UnixMilli(1_700_000_000_123)

	in := card("1", "Max", "Mustermann", "it", created)
	in.PhotoPath = "/photos/max.png"
	require.NoError(t, r.Insert(ctx, in))

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, in.FirstName, got.FirstName)
	assert.Equal(t, in.EmployeeID, got.EmployeeID)
	assert.Equal(t, "/photos/max.png", got.PhotoPath)
	assert.True(t, in.IssueDate.Equal(got.IssueDate))
	assert.True(t, in.ExpiryDate.Equal(got.ExpiryDate))
	assert.Equal(t, created.UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestGetByID_ExpiryIsLocalDay(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("UTC-5", -5*60*60)
	t.Cleanup(func() { time.Local = orig })

	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := card("1", "Max", "Mustermann", "it", time.Now())
	require.NoError(t, r.Insert(ctx, in))

	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local).Equal(got.ExpiryDate))
	assert.Equal(t, time.Local, got.ExpiryDate.Location())

	lastDay := time.Date(2026, 1, 10, 18, 0, 0, 0, time.Local)
	assert.False(t, got.Expired(lastDay), "valid through its expiry day")
	assert.True(t, got.Expired(lastDay.Add(24*time.Hour)))
}

func TestInsert_DuplicateID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, card("1", "A", "B", "it", time.Now())))
	require.Error(t, r.Insert(ctx, card("1", "A", "B", "it", time.Now())))
}

func TestGetAll_NewestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, r.Insert(ctx, card("old", "A", "A", "it", base)))
	require.NoError(t, r.Insert(ctx, card("new", "B", "B", "hr", base.Add(time.Hour))))
	require.NoError(t, r.Insert(ctx, card("mid", "C", "C", "hr", base.Add(time.Minute))))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestGetAll_Empty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	all, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSearch(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.Insert(ctx, card("1", "Max", "Mustermann", "it", now)))
	require.NoError(t, r.Insert(ctx, card("2", "Erika", "Musterfrau", "hr", now.Add(time.Second))))
	require.NoError(t, r.Insert(ctx, card("3", "Hans_X", "Meier", "finance", now.Add(2*time.Second))))

	hits, err := r.Search(ctx, "muster")
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = r.Search(ctx, "MAX MUSTER")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)

	hits, err = r.Search(ctx, "finance")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "3", hits[0].ID)

	hits, err = r.Search(ctx, "emp-2")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = r.Search(ctx, "_")
	require.NoError(t, err)
	require.Len(t, hits, 1, "underscore is literal")
	assert.Equal(t, "3", hits[0].ID)

	hits, err = r.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestDeleteByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, card("1", "A", "B", "it", time.Now())))
	require.NoError(t, r.DeleteByID(ctx, "1"))

	_, err := r.GetByID(ctx, "1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorIs(t, r.DeleteByID(ctx, "1"), common.ErrorNotFound)
}
