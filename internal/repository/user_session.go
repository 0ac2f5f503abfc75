package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type UserSessionRepository struct {
	db *sql.DB
}

func NewUserSessionRepository(db *sql.DB) *UserSessionRepository {
	return &UserSessionRepository{db: db}
}

func (r *UserSessionRepository) Create(ctx context.Context, uid, token string, kind domain.TokenKind, expiresAt time.Time) (domain.AuthSession, error) {
	session := domain.AuthSession{
		ID:        uuid.NewString(),
		UID:       uid,
		Token:     token,
		Kind:      kind,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
		LastUsed:  time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (id, uid, token, kind, expires_at, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, session.ID, session.UID, session.Token, session.Kind, session.ExpiresAt, session.CreatedAt, session.LastUsed)
	return session, err
}

func (r *UserSessionRepository) GetByToken(ctx context.Context, token string) (domain.AuthSession, error) {
	var session domain.AuthSession
	err := r.db.QueryRowContext(ctx, `
		SELECT id, uid, token, kind, expires_at, created_at, last_used_at
		FROM user_sessions
		WHERE token = $1
	`, token).Scan(&session.ID, &session.UID, &session.Token, &session.Kind, &session.ExpiresAt, &session.CreatedAt, &session.LastUsed)
	return session, err
}

func (r *UserSessionRepository) Touch(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_sessions
		SET last_used_at = $2
		WHERE id = $1
	`, id, time.Now().UTC())
	return err
}

func (r *UserSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_sessions
		WHERE token = $1
	`, token)
	return err
}

func (r *UserSessionRepository) DeleteByUID(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_sessions
		WHERE uid = $1
	`, uid)
	return err
}
