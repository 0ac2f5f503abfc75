package httpapi

import (
	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/service"
)

// Session timestamps leave the store as native times and cross the API
// boundary as integer Unix milliseconds.

type sessionJSON struct {
	ID          string `json:"id"`
	UID         string `json:"uid"`
	Title       string `json:"title"`
	SessionType string `json:"session_type"`
	StartedAt   int64  `json:"started_at"`
	EndedAt     *int64 `json:"ended_at,omitempty"`
	SyncState   string `json:"sync_state"`
}

type transcriptJSON struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	StartAt   int64   `json:"start_at"`
	EndAt     *int64  `json:"end_at,omitempty"`
	Speaker   *string `json:"speaker,omitempty"`
	Text      string  `json:"text"`
	Lang      *string `json:"lang,omitempty"`
}

type messageJSON struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	SentAt    int64   `json:"sent_at"`
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Tokens    *int    `json:"tokens,omitempty"`
	Model     *string `json:"model,omitempty"`
}

type summaryJSON struct {
	SessionID   string  `json:"session_id"`
	GeneratedAt int64   `json:"generated_at"`
	Model       *string `json:"model,omitempty"`
	Text        string  `json:"text"`
	TLDR        string  `json:"tldr"`
	BulletJSON  string  `json:"bullet_json"`
	ActionJSON  string  `json:"action_json"`
	TokensUsed  *int    `json:"tokens_used,omitempty"`
}

type sessionDetailsJSON struct {
	Session     sessionJSON      `json:"session"`
	Transcripts []transcriptJSON `json:"transcripts"`
	AIMessages  []messageJSON    `json:"ai_messages"`
	Summary     *summaryJSON     `json:"summary"`
}

func renderSession(s domain.Session) sessionJSON {
	return sessionJSON{
		ID:          s.ID,
		UID:         s.UID,
		Title:       s.Title,
		SessionType: s.SessionType,
		StartedAt:   domain.UnixMillis(s.StartedAt),
		EndedAt:     domain.UnixMillisPtr(s.EndedAt),
		SyncState:   string(s.SyncState),
	}
}

func renderSessions(sessions []domain.Session) []sessionJSON {
	out := make([]sessionJSON, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, renderSession(s))
	}
	return out
}

func renderTranscript(t domain.Transcript) transcriptJSON {
	return transcriptJSON{
		ID:        t.ID,
		SessionID: t.SessionID,
		StartAt:   domain.UnixMillis(t.StartAt),
		EndAt:     domain.UnixMillisPtr(t.EndAt),
		Speaker:   t.Speaker,
		Text:      t.Text,
		Lang:      t.Lang,
	}
}

func renderMessage(m domain.AiMessage) messageJSON {
	return messageJSON{
		ID:        m.ID,
		SessionID: m.SessionID,
		SentAt:    domain.UnixMillis(m.SentAt),
		Role:      string(m.Role),
		Content:   m.Content,
		Tokens:    m.Tokens,
		Model:     m.Model,
	}
}

func renderSummary(s domain.Summary) summaryJSON {
	return summaryJSON{
		SessionID:   s.SessionID,
		GeneratedAt: domain.UnixMillis(s.GeneratedAt),
		Model:       s.Model,
		Text:        s.Text,
		TLDR:        s.TLDR,
		BulletJSON:  s.BulletJSON,
		ActionJSON:  s.ActionJSON,
		TokensUsed:  s.TokensUsed,
	}
}

func renderSessionDetails(d service.SessionDetails) sessionDetailsJSON {
	details := sessionDetailsJSON{
		Session:     renderSession(d.Session),
		Transcripts: make([]transcriptJSON, 0, len(d.Transcripts)),
		AIMessages:  make([]messageJSON, 0, len(d.Messages)),
	}
	for _, t := range d.Transcripts {
		details.Transcripts = append(details.Transcripts, renderTranscript(t))
	}
	for _, m := range d.Messages {
		details.AIMessages = append(details.AIMessages, renderMessage(m))
	}
	if d.Summary != nil {
		summary := renderSummary(*d.Summary)
		details.Summary = &summary
	}
	return details
}
