package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reetreev/dashboard/internal/domain"
)

func TestSessionCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewSessionRepository(db)

	session, err := repo.Create(context.Background(), domain.Session{
		UID:         "u1",
		Title:       "Planning call",
		SessionType: "ask",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.StartedAt.IsZero())
	assert.Equal(t, domain.SyncClean, session.SyncState)
	assert.Nil(t, session.EndedAt)
}

func TestSessionListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewSessionRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, title := range []string{"oldest", "middle", "newest"} {
		_, err := repo.Create(ctx, domain.Session{
			UID:         "u1",
			Title:       title,
			SessionType: "ask",
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	sessions, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "newest", sessions[0].Title)
	assert.Equal(t, "oldest", sessions[2].Title)
}

func TestSessionDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	sessions := NewSessionRepository(db)
	transcripts := NewTranscriptRepository(db)
	messages := NewMessageRepository(db)
	summaries := NewSummaryRepository(db)
	ctx := context.Background()

	session, err := sessions.Create(ctx, domain.Session{UID: "u1", Title: "t", SessionType: "ask"})
	require.NoError(t, err)

	_, err = transcripts.Create(ctx, domain.Transcript{
		SessionID: session.ID,
		StartAt:   time.Now().UTC(),
		Text:      "hello there",
	})
	require.NoError(t, err)

	_, err = messages.Create(ctx, domain.AiMessage{
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Content:   "what was said?",
	})
	require.NoError(t, err)

	_, err = summaries.Upsert(ctx, domain.Summary{
		SessionID: session.ID,
		Text:      "a short call",
		TLDR:      "short",
	})
	require.NoError(t, err)

	require.NoError(t, sessions.Delete(ctx, "u1", session.ID))

	left, err := transcripts.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = summaries.Get(ctx, session.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSummaryUpsertIsSingleton(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	sessions := NewSessionRepository(db)
	summaries := NewSummaryRepository(db)
	ctx := context.Background()

	session, err := sessions.Create(ctx, domain.Session{UID: "u1", Title: "t", SessionType: "ask"})
	require.NoError(t, err)

	_, err = summaries.Upsert(ctx, domain.Summary{SessionID: session.ID, TLDR: "v1"})
	require.NoError(t, err)
	_, err = summaries.Upsert(ctx, domain.Summary{SessionID: session.ID, TLDR: "v2"})
	require.NoError(t, err)

	got, err := summaries.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.TLDR)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM summaries WHERE session_id = $1`, session.ID).Scan(&count))
	assert.Equal(t, 1, count)
}
