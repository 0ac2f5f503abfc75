package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message domain.AiMessage) (domain.AiMessage, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	message.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ai_messages (id, session_id, sent_at, role, content, tokens, model, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, message.ID, message.SessionID, message.SentAt, message.Role, message.Content,
		message.Tokens, message.Model, message.CreatedAt)
	return message, err
}

func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.AiMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, sent_at, role, content, tokens, model, created_at
		FROM ai_messages
		WHERE session_id = $1
		ORDER BY sent_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.AiMessage
	for rows.Next() {
		var m domain.AiMessage
		var tokens sql.NullInt64
		var model sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &m.SentAt, &m.Role, &m.Content, &tokens, &model, &m.CreatedAt); err != nil {
			return nil, err
		}
		if tokens.Valid {
			value := int(tokens.Int64)
			m.Tokens = &value
		}
		if model.Valid {
			value := model.String
			m.Model = &value
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
