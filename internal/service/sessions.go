package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/repository"
)

type SessionDetails struct {
	Session     domain.Session
	Transcripts []domain.Transcript
	Messages    []domain.AiMessage
	Summary     *domain.Summary
}

type SessionService struct {
	sessions    *repository.SessionRepository
	transcripts *repository.TranscriptRepository
	messages    *repository.MessageRepository
	summaries   *repository.SummaryRepository
}

func NewSessionService(
	sessions *repository.SessionRepository,
	transcripts *repository.TranscriptRepository,
	messages *repository.MessageRepository,
	summaries *repository.SummaryRepository,
) *SessionService {
	return &SessionService{
		sessions:    sessions,
		transcripts: transcripts,
		messages:    messages,
		summaries:   summaries,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, uid, title string) (domain.Session, error) {
	if strings.TrimSpace(title) == "" {
		title = "New Session"
	}
	return s.sessions.Create(ctx, domain.Session{
		UID:         uid,
		Title:       title,
		SessionType: "ask",
	})
}

func (s *SessionService) ListSessions(ctx context.Context, uid string) ([]domain.Session, error) {
	return s.sessions.List(ctx, uid)
}

// GetSessionDetails fetches the session row and its child collections
// concurrently. The whole call fails if the session itself is absent;
// a missing summary is reported as nil.
func (s *SessionService) GetSessionDetails(ctx context.Context, uid, sessionID string) (SessionDetails, error) {
	var details SessionDetails

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		session, err := s.sessions.Get(gctx, uid, sessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrConversationNotFound
		}
		if err != nil {
			return err
		}
		details.Session = session
		return nil
	})
	g.Go(func() error {
		transcripts, err := s.transcripts.ListBySession(gctx, sessionID)
		if err != nil {
			return err
		}
		details.Transcripts = transcripts
		return nil
	})
	g.Go(func() error {
		messages, err := s.messages.ListBySession(gctx, sessionID)
		if err != nil {
			return err
		}
		details.Messages = messages
		return nil
	})
	g.Go(func() error {
		summary, err := s.summaries.Get(gctx, sessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		details.Summary = &summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return SessionDetails{}, err
	}
	return details, nil
}

func (s *SessionService) EndSession(ctx context.Context, uid, sessionID string) error {
	err := s.sessions.End(ctx, uid, sessionID, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConversationNotFound
	}
	return err
}

func (s *SessionService) DeleteSession(ctx context.Context, uid, sessionID string) error {
	err := s.sessions.Delete(ctx, uid, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConversationNotFound
	}
	return err
}

func (s *SessionService) AddTranscript(ctx context.Context, uid string, transcript domain.Transcript) (domain.Transcript, error) {
	if _, err := s.sessions.Get(ctx, uid, transcript.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transcript{}, ErrConversationNotFound
		}
		return domain.Transcript{}, err
	}
	return s.transcripts.Create(ctx, transcript)
}

func (s *SessionService) AddMessage(ctx context.Context, uid string, message domain.AiMessage) (domain.AiMessage, error) {
	if message.Role != domain.RoleUser && message.Role != domain.RoleAssistant {
		return domain.AiMessage{}, ErrInvalidRole
	}
	if _, err := s.sessions.Get(ctx, uid, message.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AiMessage{}, ErrConversationNotFound
		}
		return domain.AiMessage{}, err
	}
	return s.messages.Create(ctx, message)
}

func (s *SessionService) SetSummary(ctx context.Context, uid string, summary domain.Summary) (domain.Summary, error) {
	if _, err := s.sessions.Get(ctx, uid, summary.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Summary{}, ErrConversationNotFound
		}
		return domain.Summary{}, err
	}
	return s.summaries.Upsert(ctx, summary)
}

// SearchConversations is a case-insensitive substring filter over session
// titles. An empty or blank query matches nothing.
func (s *SessionService) SearchConversations(ctx context.Context, uid, query string) ([]domain.Session, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Session{}, nil
	}

	sessions, err := s.sessions.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if strings.Contains(strings.ToLower(session.Title), needle) {
			matched = append(matched, session)
		}
	}
	return matched, nil
}
