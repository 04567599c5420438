package admin

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/employcd/employcd/internal/admin/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{SupabaseURL: "http://127.0.0.1:1", ServiceKey: "k", DatabaseDSN: "postgres://x"}
	cfg.LoadDefaults()
	cfg.RequestTimeout = time.Second
	return cfg
}

func TestOpen_PingsAndCloses(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(dsn string) (*sql.DB, error) {
		assert.Equal(t, "postgres://x", dsn)
		return db, nil
	}

	app, err := Open(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, app.SubscriptionService)
	require.NoError(t, app.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string) (*sql.DB, error) { return db, nil }

	_, err = Open(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
	require.NoError(t, mock.ExpectationsWereMet())
}
