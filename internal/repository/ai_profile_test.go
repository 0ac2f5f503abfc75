package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reetreev/dashboard/internal/domain"
)

func createProfile(t *testing.T, repo *AIProfileRepository, uid, name string, isDefault bool) domain.AiProfile {
	t.Helper()
	profile, err := repo.Create(context.Background(), domain.AiProfile{
		UID:       uid,
		Name:      name,
		Model:     "gpt-4o",
		Provider:  domain.ProviderOpenAI,
		IsDefault: isDefault,
		IsActive:  true,
	})
	require.NoError(t, err)
	return profile
}

func TestAIProfileDefaultSwap(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewAIProfileRepository(db)
	ctx := context.Background()

	first := createProfile(t, repo, "u1", "first", true)
	second := createProfile(t, repo, "u1", "second", false)

	got, err := repo.GetDefault(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	require.NoError(t, repo.SetDefault(ctx, "u1", second.ID))

	got, err = repo.GetDefault(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	// The old default was cleared, not duplicated.
	old, err := repo.Get(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)

	profiles, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	defaults := 0
	for _, p := range profiles {
		if p.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestAIProfileCreateDefaultClearsPrevious(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewAIProfileRepository(db)
	ctx := context.Background()

	first := createProfile(t, repo, "u1", "first", true)
	second := createProfile(t, repo, "u1", "second", true)

	got, err := repo.GetDefault(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	old, err := repo.Get(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestAIProfileGetDefaultRequiresActive(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewAIProfileRepository(db)
	ctx := context.Background()

	profile := createProfile(t, repo, "u1", "only", true)
	profile.IsActive = false
	_, err := repo.Update(ctx, profile)
	require.NoError(t, err)

	_, err = repo.GetDefault(ctx, "u1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAIProfileDeleteNeverPromotes(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewAIProfileRepository(db)
	ctx := context.Background()

	defaultProfile := createProfile(t, repo, "u1", "default", true)
	createProfile(t, repo, "u1", "other", false)

	require.NoError(t, repo.Delete(ctx, "u1", defaultProfile.ID))

	_, err := repo.GetDefault(ctx, "u1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAIProfileScopedByUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	repo := NewAIProfileRepository(db)
	ctx := context.Background()

	mine := createProfile(t, repo, "u1", "mine", false)

	_, err := repo.Get(ctx, "u2", mine.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = repo.SetDefault(ctx, "u2", mine.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
