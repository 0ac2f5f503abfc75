package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type TranscriptRepository struct {
	db *sql.DB
}

func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Create(ctx context.Context, transcript domain.Transcript) (domain.Transcript, error) {
	if transcript.ID == "" {
		transcript.ID = uuid.NewString()
	}
	transcript.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transcripts (id, session_id, start_at, end_at, speaker, text, lang, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, transcript.ID, transcript.SessionID, transcript.StartAt, transcript.EndAt,
		transcript.Speaker, transcript.Text, transcript.Lang, transcript.CreatedAt)
	return transcript, err
}

func (r *TranscriptRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Transcript, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, start_at, end_at, speaker, text, lang, created_at
		FROM transcripts
		WHERE session_id = $1
		ORDER BY start_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []domain.Transcript
	for rows.Next() {
		var t domain.Transcript
		var endAt sql.NullTime
		var speaker, lang sql.NullString
		if err := rows.Scan(&t.ID, &t.SessionID, &t.StartAt, &endAt, &speaker, &t.Text, &lang, &t.CreatedAt); err != nil {
			return nil, err
		}
		if endAt.Valid {
			value := endAt.Time
			t.EndAt = &value
		}
		if speaker.Valid {
			value := speaker.String
			t.Speaker = &value
		}
		if lang.Valid {
			value := lang.String
			t.Lang = &value
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, rows.Err()
}
