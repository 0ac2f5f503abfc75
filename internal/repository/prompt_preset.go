package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type PromptPresetRepository struct {
	db *sql.DB
}

func NewPromptPresetRepository(db *sql.DB) *PromptPresetRepository {
	return &PromptPresetRepository{db: db}
}

func (r *PromptPresetRepository) List(ctx context.Context, uid string) ([]domain.PromptPreset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uid, title, prompt, is_default, created_at
		FROM prompt_presets
		WHERE uid = $1
		ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []domain.PromptPreset
	for rows.Next() {
		var preset domain.PromptPreset
		if err := rows.Scan(&preset.ID, &preset.UID, &preset.Title, &preset.Prompt, &preset.IsDefault, &preset.CreatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}
	return presets, rows.Err()
}

func (r *PromptPresetRepository) Get(ctx context.Context, uid, id string) (domain.PromptPreset, error) {
	var preset domain.PromptPreset
	err := r.db.QueryRowContext(ctx, `
		SELECT id, uid, title, prompt, is_default, created_at
		FROM prompt_presets
		WHERE uid = $1 AND id = $2
	`, uid, id).Scan(&preset.ID, &preset.UID, &preset.Title, &preset.Prompt, &preset.IsDefault, &preset.CreatedAt)
	return preset, err
}

func (r *PromptPresetRepository) Create(ctx context.Context, uid, title, prompt string, isDefault bool) (domain.PromptPreset, error) {
	preset := domain.PromptPreset{
		ID:        uuid.NewString(),
		UID:       uid,
		Title:     title,
		Prompt:    prompt,
		IsDefault: isDefault,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prompt_presets (id, uid, title, prompt, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, preset.ID, preset.UID, preset.Title, preset.Prompt, preset.IsDefault, preset.CreatedAt)
	return preset, err
}

func (r *PromptPresetRepository) Update(ctx context.Context, uid, id, title, prompt string) (domain.PromptPreset, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE prompt_presets
		SET title = $1, prompt = $2
		WHERE uid = $3 AND id = $4
	`, title, prompt, uid, id)
	if err != nil {
		return domain.PromptPreset{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PromptPreset{}, err
	}
	if rows == 0 {
		return domain.PromptPreset{}, sql.ErrNoRows
	}
	return r.Get(ctx, uid, id)
}

func (r *PromptPresetRepository) Delete(ctx context.Context, uid, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM prompt_presets WHERE uid = $1 AND id = $2`, uid, id)
	return err
}
