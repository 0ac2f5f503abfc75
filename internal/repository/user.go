package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/reetreev/dashboard/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, uid, displayName, email string) (domain.UserProfile, error) {
	user := domain.UserProfile{
		UID:         uid,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (uid, display_name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.UID, user.DisplayName, user.Email, user.CreatedAt)
	return user, err
}

func (r *UserRepository) Get(ctx context.Context, uid string) (domain.UserProfile, error) {
	var user domain.UserProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT uid, display_name, email, created_at
		FROM users
		WHERE uid = $1
	`, uid).Scan(&user.UID, &user.DisplayName, &user.Email, &user.CreatedAt)
	return user, err
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET display_name = $1
		WHERE uid = $2
	`, displayName, uid)
	return err
}

// UpdateAPIKey stores the account-level sealed key; nil clears it.
func (r *UserRepository) UpdateAPIKey(ctx context.Context, uid string, key *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET api_key = $1
		WHERE uid = $2
	`, key, uid)
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

func (r *UserRepository) GetAPIKey(ctx context.Context, uid string) (*string, error) {
	var key sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT api_key FROM users WHERE uid = $1
	`, uid).Scan(&key)
	if err != nil {
		return nil, err
	}
	if !key.Valid {
		return nil, nil
	}
	value := key.String
	return &value, nil
}

// Delete removes the user row; owned records cascade.
func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	return err
}
