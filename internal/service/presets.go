package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/repository"
)

var ErrPresetNotFound = errors.New("preset_not_found")

type PresetService struct {
	repo *repository.PromptPresetRepository
}

func NewPresetService(repo *repository.PromptPresetRepository) *PresetService {
	return &PresetService{repo: repo}
}

func (s *PresetService) List(ctx context.Context, uid string) ([]domain.PromptPreset, error) {
	return s.repo.List(ctx, uid)
}

func (s *PresetService) Create(ctx context.Context, uid, title, prompt string) (domain.PromptPreset, error) {
	return s.repo.Create(ctx, uid, title, prompt, false)
}

func (s *PresetService) Update(ctx context.Context, uid, id, title, prompt string) (domain.PromptPreset, error) {
	preset, err := s.repo.Update(ctx, uid, id, title, prompt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PromptPreset{}, ErrPresetNotFound
	}
	return preset, err
}

func (s *PresetService) Delete(ctx context.Context, uid, id string) error {
	return s.repo.Delete(ctx, uid, id)
}
