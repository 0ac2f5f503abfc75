package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/repository"
)

type UserService struct {
	users      *repository.UserRepository
	identities *repository.IdentityRepository
}

func NewUserService(users *repository.UserRepository, identities *repository.IdentityRepository) *UserService {
	return &UserService{users: users, identities: identities}
}

// FindOrCreate ensures a stored user record exists for the given profile.
// An existing record is left untouched even if the provider identity has
// since changed; the caller gets back the profile it passed in.
func (s *UserService) FindOrCreate(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, error) {
	_, err := s.users.Get(ctx, profile.UID)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.users.Create(ctx, profile.UID, profile.DisplayName, profile.Email); err != nil {
			return domain.UserProfile{}, err
		}
		return profile, nil
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (domain.UserProfile, error) {
	user, err := s.users.Get(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserProfile{}, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	return s.users.UpdateDisplayName(ctx, uid, displayName)
}

// DeleteAccount removes the stored user record (owned data cascades) and
// the underlying identity.
func (s *UserService) DeleteAccount(ctx context.Context, uid string) error {
	if err := s.identities.Delete(ctx, uid); err != nil {
		return err
	}
	return s.users.Delete(ctx, uid)
}
