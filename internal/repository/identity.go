package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/reetreev/dashboard/internal/domain"
)

type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, uid, email, passwordHash string) (domain.Identity, error) {
	identity := domain.Identity{
		UID:          uid,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (uid, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, identity.UID, identity.Email, identity.PasswordHash, identity.CreatedAt)
	return identity, err
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT uid, email, password_hash, email_verified, disabled, failed_logins, last_failed_at, created_at
		FROM identities
		WHERE email = $1
	`, email))
}

func (r *IdentityRepository) Get(ctx context.Context, uid string) (domain.Identity, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT uid, email, password_hash, email_verified, disabled, failed_logins, last_failed_at, created_at
		FROM identities
		WHERE uid = $1
	`, uid))
}

func (r *IdentityRepository) RecordFailedLogin(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE identities
		SET failed_logins = failed_logins + 1, last_failed_at = $1
		WHERE uid = $2
	`, time.Now().UTC(), uid)
	return err
}

func (r *IdentityRepository) ClearFailedLogins(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE identities
		SET failed_logins = 0, last_failed_at = NULL
		WHERE uid = $1
	`, uid)
	return err
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, uid, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE identities
		SET password_hash = $1
		WHERE uid = $2
	`, passwordHash, uid)
	return err
}

func (r *IdentityRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE uid = $1`, uid)
	return err
}

func (r *IdentityRepository) scanOne(row *sql.Row) (domain.Identity, error) {
	var identity domain.Identity
	var lastFailed sql.NullTime
	err := row.Scan(&identity.UID, &identity.Email, &identity.PasswordHash, &identity.EmailVerified,
		&identity.Disabled, &identity.FailedLogins, &lastFailed, &identity.CreatedAt)
	if err != nil {
		return domain.Identity{}, err
	}
	if lastFailed.Valid {
		value := lastFailed.Time
		identity.LastFailedAt = &value
	}
	return identity, nil
}
