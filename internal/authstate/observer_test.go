package authstate

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/events"
	"github.com/reetreev/dashboard/internal/repository"
	"github.com/reetreev/dashboard/internal/service"
	"github.com/reetreev/dashboard/internal/storage"
)

func newTestObserver(t *testing.T) (*Observer, *MemoryMirror, *events.Emitter) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(context.Background(), db))

	users := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewIdentityRepository(db),
	)
	emitter := events.NewEmitter()
	mirror := NewMemoryMirror()
	return NewObserver(users, emitter, mirror), mirror, emitter
}

func TestObserverStartsLoading(t *testing.T) {
	observer, _, _ := newTestObserver(t)

	state := observer.State()
	assert.True(t, state.IsLoading)
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.ShowSidebar)
	assert.Nil(t, state.User)
}

func TestObserverSignIn(t *testing.T) {
	observer, mirror, _ := newTestObserver(t)

	observer.OnSessionChange(context.Background(), &service.IdentityClaims{
		UID:   "u1",
		Email: "alice@example.com",
		Name:  "Alice",
	})

	state := observer.State()
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.ShowSidebar)
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.User)
	assert.Equal(t, "Alice", state.User.DisplayName)

	saved, ok, err := mirror.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", saved.UID)
}

func TestObserverAppliesFallbacks(t *testing.T) {
	observer, _, _ := newTestObserver(t)

	observer.OnSessionChange(context.Background(), &service.IdentityClaims{UID: "u1"})

	state := observer.State()
	require.NotNil(t, state.User)
	assert.Equal(t, "User", state.User.DisplayName)
	assert.Equal(t, "no-email@example.com", state.User.Email)
}

func TestObserverBootstrapFailure(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, storage.RunMigrations(context.Background(), db))

	users := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewIdentityRepository(db),
	)
	observer := NewObserver(users, events.NewEmitter(), NewMemoryMirror())

	// Closing the database makes the profile bootstrap fail.
	require.NoError(t, db.Close())
	observer.OnSessionChange(context.Background(), &service.IdentityClaims{
		UID:   "u1",
		Email: "alice@example.com",
		Name:  "Alice",
	})

	state := observer.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Nil(t, state.User)
	assert.Equal(t, "Failed to initialize user profile", state.Error)
}

func TestObserverSignOutClearsMirror(t *testing.T) {
	observer, mirror, emitter := newTestObserver(t)

	var emitted []*domain.UserProfile
	emitter.Subscribe(func(user *domain.UserProfile) {
		emitted = append(emitted, user)
	})

	ctx := context.Background()
	observer.OnSessionChange(ctx, &service.IdentityClaims{UID: "u1", Email: "a@example.com", Name: "A"})
	observer.OnSessionChange(ctx, nil)

	state := observer.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.ShowSidebar)
	assert.Nil(t, state.User)

	_, ok, err := mirror.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.Len(t, emitted, 2)
	assert.NotNil(t, emitted[0])
	assert.Nil(t, emitted[1])
}

func TestFileMirrorRoundTrip(t *testing.T) {
	mirror := NewFileMirror(t.TempDir() + "/user.json")

	_, ok, err := mirror.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	user := domain.UserProfile{UID: "u1", DisplayName: "Alice", Email: "alice@example.com"}
	require.NoError(t, mirror.Save(user))

	loaded, ok, err := mirror.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.UID, loaded.UID)
	assert.Equal(t, user.Email, loaded.Email)

	require.NoError(t, mirror.Clear())
	_, ok, err = mirror.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an already-empty mirror succeeds.
	require.NoError(t, mirror.Clear())
}
