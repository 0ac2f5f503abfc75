package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/reetreev/dashboard/internal/config"
	"github.com/reetreev/dashboard/internal/repository"
	"github.com/reetreev/dashboard/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)
	require.NoError(t, storage.RunMigrations(context.Background(), db))

	return db
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		EncryptionKey:  "test-encryption-key",
		SessionTTL:     time.Hour,
		CustomTokenTTL: 10 * time.Minute,
		ResetTokenTTL:  time.Hour,
	}
}

func newAuthService(t *testing.T, db *sql.DB) (*AuthService, *UserService) {
	t.Helper()
	users := repository.NewUserRepository(db)
	identities := repository.NewIdentityRepository(db)
	sessions := repository.NewUserSessionRepository(db)
	resets := repository.NewPasswordResetRepository(db)

	userService := NewUserService(users, identities)
	return NewAuthService(identities, sessions, resets, userService, testSecurityConfig()), userService
}
