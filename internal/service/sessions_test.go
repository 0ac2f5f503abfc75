package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/repository"
)

func newSessionService(t *testing.T) (*SessionService, string) {
	t.Helper()
	db := newTestDB(t)
	auth, _ := newAuthService(t, db)

	user, _, err := auth.SignUp(context.Background(), "alice@example.com", "MySecurePass1", "Alice")
	require.NoError(t, err)

	svc := NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewTranscriptRepository(db),
		repository.NewMessageRepository(db),
		repository.NewSummaryRepository(db),
	)
	return svc, user.UID
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	svc, uid := newSessionService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, uid, "   ")
	require.NoError(t, err)
	assert.Equal(t, "New Session", session.Title)
	assert.Equal(t, "ask", session.SessionType)

	named, err := svc.CreateSession(ctx, uid, "Standup notes")
	require.NoError(t, err)
	assert.Equal(t, "Standup notes", named.Title)
}

func TestGetSessionDetails(t *testing.T) {
	svc, uid := newSessionService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, uid, "Design review")
	require.NoError(t, err)

	_, err = svc.AddTranscript(ctx, uid, domain.Transcript{
		SessionID: session.ID,
		Text:      "let's look at the mockups",
	})
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, uid, domain.AiMessage{
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Content:   "summarize the meeting",
	})
	require.NoError(t, err)

	details, err := svc.GetSessionDetails(ctx, uid, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, details.Session.ID)
	assert.Len(t, details.Transcripts, 1)
	assert.Len(t, details.Messages, 1)
	assert.Nil(t, details.Summary)

	_, err = svc.SetSummary(ctx, uid, domain.Summary{SessionID: session.ID, TLDR: "reviewed mockups"})
	require.NoError(t, err)

	details, err = svc.GetSessionDetails(ctx, uid, session.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Summary)
	assert.Equal(t, "reviewed mockups", details.Summary.TLDR)
}

func TestGetSessionDetailsNotFound(t *testing.T) {
	svc, uid := newSessionService(t)

	_, err := svc.GetSessionDetails(context.Background(), uid, "missing-session")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestAddMessageValidatesRole(t *testing.T) {
	svc, uid := newSessionService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, uid, "t")
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, uid, domain.AiMessage{
		SessionID: session.ID,
		Role:      domain.MessageRole("system"),
		Content:   "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAddTranscriptRequiresOwnership(t *testing.T) {
	svc, uid := newSessionService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, uid, "mine")
	require.NoError(t, err)

	_, err = svc.AddTranscript(ctx, "someone-else", domain.Transcript{
		SessionID: session.ID,
		Text:      "intruding",
	})
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestSearchConversations(t *testing.T) {
	svc, uid := newSessionService(t)
	ctx := context.Background()

	for _, title := range []string{"Weekly sync", "Design review", "weekly retro"} {
		_, err := svc.CreateSession(ctx, uid, title)
		require.NoError(t, err)
	}

	matches, err := svc.SearchConversations(ctx, uid, "WEEKLY")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = svc.SearchConversations(ctx, uid, "   ")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = svc.SearchConversations(ctx, uid, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEndSession(t *testing.T) {
	svc, uid := newSessionService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, uid, "t")
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, uid, session.ID))

	details, err := svc.GetSessionDetails(ctx, uid, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, details.Session.EndedAt)

	err = svc.EndSession(ctx, uid, "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
