package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/reetreev/dashboard/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection so every statement sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)
	require.NoError(t, storage.RunMigrations(context.Background(), db))

	return db
}

func seedUser(t *testing.T, db *sql.DB, uid string) {
	t.Helper()
	_, err := NewUserRepository(db).Create(context.Background(), uid, "Tester", uid+"@example.com")
	require.NoError(t, err)
}
