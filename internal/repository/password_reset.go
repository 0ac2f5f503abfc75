package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type PasswordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, uid, token string, expiresAt time.Time) (domain.PasswordReset, error) {
	reset := domain.PasswordReset{
		ID:        uuid.NewString(),
		UID:       uid,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_resets (id, uid, token, used, expires_at, created_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, reset.ID, reset.UID, reset.Token, reset.ExpiresAt, reset.CreatedAt)
	return reset, err
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (domain.PasswordReset, error) {
	var reset domain.PasswordReset
	err := r.db.QueryRowContext(ctx, `
		SELECT id, uid, token, used, expires_at, created_at
		FROM password_resets
		WHERE token = $1
	`, token).Scan(&reset.ID, &reset.UID, &reset.Token, &reset.Used, &reset.ExpiresAt, &reset.CreatedAt)
	return reset, err
}

// MarkUsed consumes a reset token; a second call finds no unused row.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE password_resets
		SET used = TRUE
		WHERE id = $1 AND used = FALSE
	`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
