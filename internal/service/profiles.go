package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/repository"
)

type CreateProfileData struct {
	Name         string
	Description  string
	Model        string
	Provider     domain.Provider
	APIKey       *string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	IsDefault    bool
}

// UpdateProfileData carries partial updates; nil fields keep their stored
// value.
type UpdateProfileData struct {
	Name         *string
	Description  *string
	Model        *string
	Provider     *domain.Provider
	APIKey       *string
	Temperature  *float64
	MaxTokens    *int
	SystemPrompt *string
	IsDefault    *bool
	IsActive     *bool
}

type ProfileService struct {
	repo  *repository.AIProfileRepository
	users *repository.UserRepository
	key   []byte
}

func NewProfileService(repo *repository.AIProfileRepository, users *repository.UserRepository, encryptionKey string) *ProfileService {
	hashed := sha256.Sum256([]byte(encryptionKey))
	return &ProfileService{
		repo:  repo,
		users: users,
		key:   hashed[:],
	}
}

func (s *ProfileService) List(ctx context.Context, uid string) ([]domain.AiProfile, error) {
	profiles, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if err := s.openKey(&profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, uid, id string) (domain.AiProfile, error) {
	profile, err := s.repo.Get(ctx, uid, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AiProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.AiProfile{}, err
	}
	if err := s.openKey(&profile); err != nil {
		return domain.AiProfile{}, err
	}
	return profile, nil
}

func (s *ProfileService) Create(ctx context.Context, uid string, data CreateProfileData) (domain.AiProfile, error) {
	if !data.Provider.Valid() {
		return domain.AiProfile{}, ErrInvalidProvider
	}

	profile := domain.AiProfile{
		UID:          uid,
		Name:         data.Name,
		Description:  data.Description,
		Model:        data.Model,
		Provider:     data.Provider,
		Temperature:  data.Temperature,
		MaxTokens:    data.MaxTokens,
		SystemPrompt: data.SystemPrompt,
		IsDefault:    data.IsDefault,
		IsActive:     true,
	}
	if data.APIKey != nil && *data.APIKey != "" {
		sealed, err := s.encrypt(*data.APIKey)
		if err != nil {
			return domain.AiProfile{}, err
		}
		profile.APIKey = &sealed
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		return domain.AiProfile{}, err
	}
	if err := s.openKey(&created); err != nil {
		return domain.AiProfile{}, err
	}
	return created, nil
}

func (s *ProfileService) Update(ctx context.Context, uid, id string, data UpdateProfileData) (domain.AiProfile, error) {
	profile, err := s.repo.Get(ctx, uid, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AiProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.AiProfile{}, err
	}

	if data.Name != nil {
		profile.Name = *data.Name
	}
	if data.Description != nil {
		profile.Description = *data.Description
	}
	if data.Model != nil {
		profile.Model = *data.Model
	}
	if data.Provider != nil {
		if !data.Provider.Valid() {
			return domain.AiProfile{}, ErrInvalidProvider
		}
		profile.Provider = *data.Provider
	}
	if data.APIKey != nil && *data.APIKey != "" {
		sealed, err := s.encrypt(*data.APIKey)
		if err != nil {
			return domain.AiProfile{}, err
		}
		profile.APIKey = &sealed
	}
	if data.Temperature != nil {
		profile.Temperature = *data.Temperature
	}
	if data.MaxTokens != nil {
		profile.MaxTokens = *data.MaxTokens
	}
	if data.SystemPrompt != nil {
		profile.SystemPrompt = *data.SystemPrompt
	}
	if data.IsDefault != nil {
		profile.IsDefault = *data.IsDefault
	}
	if data.IsActive != nil {
		profile.IsActive = *data.IsActive
	}

	updated, err := s.repo.Update(ctx, profile)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AiProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.AiProfile{}, err
	}
	if err := s.openKey(&updated); err != nil {
		return domain.AiProfile{}, err
	}
	return updated, nil
}

func (s *ProfileService) Delete(ctx context.Context, uid, id string) error {
	err := s.repo.Delete(ctx, uid, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	return err
}

// GetDefault returns nil when the user has no default profile; that is a
// legitimate state, not an error.
func (s *ProfileService) GetDefault(ctx context.Context, uid string) (*domain.AiProfile, error) {
	profile, err := s.repo.GetDefault(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.openKey(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) SetDefault(ctx context.Context, uid, id string) error {
	err := s.repo.SetDefault(ctx, uid, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	return err
}

// SaveUserKey seals the account-level API key; it lives on the user row
// rather than on a profile.
func (s *ProfileService) SaveUserKey(ctx context.Context, uid, apiKey string) error {
	sealed, err := s.encrypt(apiKey)
	if err != nil {
		return err
	}
	err = s.users.UpdateAPIKey(ctx, uid, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func (s *ProfileService) RemoveUserKey(ctx context.Context, uid string) error {
	err := s.users.UpdateAPIKey(ctx, uid, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// UserKeyStatus reports whether a sealed key is stored without revealing it.
func (s *ProfileService) UserKeyStatus(ctx context.Context, uid string) (bool, error) {
	key, err := s.users.GetAPIKey(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, err
	}
	return key != nil, nil
}

func (s *ProfileService) openKey(profile *domain.AiProfile) error {
	if profile.APIKey == nil {
		return nil
	}
	plain, err := s.decrypt(*profile.APIKey)
	if err != nil {
		return err
	}
	profile.APIKey = &plain
	return nil
}

func (s *ProfileService) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *ProfileService) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
