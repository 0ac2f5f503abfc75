package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type AIProfileRepository struct {
	db *sql.DB
}

func NewAIProfileRepository(db *sql.DB) *AIProfileRepository {
	return &AIProfileRepository{db: db}
}

const aiProfileColumns = `id, uid, name, description, model, provider, api_key, temperature, max_tokens, system_prompt, is_default, is_active, created_at, updated_at`

func (r *AIProfileRepository) List(ctx context.Context, uid string) ([]domain.AiProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+aiProfileColumns+`
		FROM ai_profiles
		WHERE uid = $1
		ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.AiProfile
	for rows.Next() {
		profile, err := scanAiProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *AIProfileRepository) Get(ctx context.Context, uid, id string) (domain.AiProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+aiProfileColumns+`
		FROM ai_profiles
		WHERE uid = $1 AND id = $2
	`, uid, id)
	return scanAiProfile(row)
}

// GetDefault returns the active default profile; sql.ErrNoRows when a user
// has none, which is a legitimate state.
func (r *AIProfileRepository) GetDefault(ctx context.Context, uid string) (domain.AiProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+aiProfileColumns+`
		FROM ai_profiles
		WHERE uid = $1 AND is_default = TRUE AND is_active = TRUE
		LIMIT 1
	`, uid)
	return scanAiProfile(row)
}

// Create inserts a profile. When it is flagged default, the clear-then-set
// pair runs in one transaction so at most one default exists per uid.
func (r *AIProfileRepository) Create(ctx context.Context, profile domain.AiProfile) (domain.AiProfile, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AiProfile{}, err
	}
	defer tx.Rollback()

	if profile.IsDefault {
		if err := clearDefaults(ctx, tx, profile.UID, now); err != nil {
			return domain.AiProfile{}, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ai_profiles (`+aiProfileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, profile.ID, profile.UID, profile.Name, profile.Description, profile.Model, profile.Provider,
		profile.APIKey, profile.Temperature, profile.MaxTokens, profile.SystemPrompt,
		profile.IsDefault, profile.IsActive, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return domain.AiProfile{}, err
	}
	return profile, tx.Commit()
}

// Update persists a fully-materialized profile row (read-modify-write in the
// service layer), clearing other defaults in the same transaction when the
// row becomes the default.
func (r *AIProfileRepository) Update(ctx context.Context, profile domain.AiProfile) (domain.AiProfile, error) {
	now := time.Now().UTC()
	profile.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AiProfile{}, err
	}
	defer tx.Rollback()

	if profile.IsDefault {
		if err := clearDefaults(ctx, tx, profile.UID, now); err != nil {
			return domain.AiProfile{}, err
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE ai_profiles
		SET name = $1, description = $2, model = $3, provider = $4, api_key = $5,
			temperature = $6, max_tokens = $7, system_prompt = $8,
			is_default = $9, is_active = $10, updated_at = $11
		WHERE uid = $12 AND id = $13
	`, profile.Name, profile.Description, profile.Model, profile.Provider, profile.APIKey,
		profile.Temperature, profile.MaxTokens, profile.SystemPrompt,
		profile.IsDefault, profile.IsActive, profile.UpdatedAt, profile.UID, profile.ID)
	if err != nil {
		return domain.AiProfile{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.AiProfile{}, err
	}
	if rows == 0 {
		return domain.AiProfile{}, sql.ErrNoRows
	}
	return profile, tx.Commit()
}

func (r *AIProfileRepository) SetDefault(ctx context.Context, uid, id string) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearDefaults(ctx, tx, uid, now); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE ai_profiles
		SET is_default = TRUE, updated_at = $1
		WHERE uid = $2 AND id = $3
	`, now, uid, id)
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
	return tx.Commit()
}

// Delete removes the profile without promoting a replacement default.
func (r *AIProfileRepository) Delete(ctx context.Context, uid, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM ai_profiles
		WHERE uid = $1 AND id = $2
	`, uid, id)
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

func clearDefaults(ctx context.Context, tx *sql.Tx, uid string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE ai_profiles
		SET is_default = FALSE, updated_at = $1
		WHERE uid = $2 AND is_default = TRUE
	`, now, uid)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAiProfile(row rowScanner) (domain.AiProfile, error) {
	var profile domain.AiProfile
	var apiKey sql.NullString
	err := row.Scan(&profile.ID, &profile.UID, &profile.Name, &profile.Description, &profile.Model,
		&profile.Provider, &apiKey, &profile.Temperature, &profile.MaxTokens, &profile.SystemPrompt,
		&profile.IsDefault, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return domain.AiProfile{}, err
	}
	if apiKey.Valid {
		value := apiKey.String
		profile.APIKey = &value
	}
	return profile, nil
}
