package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/reetreev/dashboard/internal/domain"
)

type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert writes the singleton summary row for a session.
func (r *SummaryRepository) Upsert(ctx context.Context, summary domain.Summary) (domain.Summary, error) {
	now := time.Now().UTC()
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = now
	}
	summary.UpdatedAt = now

	_, err := r.Get(ctx, summary.SessionID)
	if err == sql.ErrNoRows {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO summaries (session_id, generated_at, model, text, tldr, bullet_json, action_json, tokens_used, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, summary.SessionID, summary.GeneratedAt, summary.Model, summary.Text, summary.TLDR,
			summary.BulletJSON, summary.ActionJSON, summary.TokensUsed, summary.UpdatedAt)
		return summary, err
	}
	if err != nil {
		return domain.Summary{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE summaries
		SET generated_at = $1, model = $2, text = $3, tldr = $4, bullet_json = $5,
			action_json = $6, tokens_used = $7, updated_at = $8
		WHERE session_id = $9
	`, summary.GeneratedAt, summary.Model, summary.Text, summary.TLDR, summary.BulletJSON,
		summary.ActionJSON, summary.TokensUsed, summary.UpdatedAt, summary.SessionID)
	return summary, err
}

func (r *SummaryRepository) Get(ctx context.Context, sessionID string) (domain.Summary, error) {
	var summary domain.Summary
	var model sql.NullString
	var tokensUsed sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, generated_at, model, text, tldr, bullet_json, action_json, tokens_used, updated_at
		FROM summaries
		WHERE session_id = $1
	`, sessionID).Scan(&summary.SessionID, &summary.GeneratedAt, &model, &summary.Text, &summary.TLDR,
		&summary.BulletJSON, &summary.ActionJSON, &tokensUsed, &summary.UpdatedAt)
	if err != nil {
		return domain.Summary{}, err
	}
	if model.Valid {
		value := model.String
		summary.Model = &value
	}
	if tokensUsed.Valid {
		value := int(tokensUsed.Int64)
		summary.TokensUsed = &value
	}
	return summary, nil
}
