package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reetreev/dashboard/internal/config"
	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/repository"
)

const (
	maxFailedLogins   = 5
	failedLoginWindow = 15 * time.Minute
)

// IdentityClaims is what the verification endpoint reports about a token's
// owner.
type IdentityClaims struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"emailVerified"`
}

type AuthService struct {
	identities *repository.IdentityRepository
	sessions   *repository.UserSessionRepository
	resets     *repository.PasswordResetRepository
	users      *UserService
	cfg        config.SecurityConfig
}

func NewAuthService(
	identities *repository.IdentityRepository,
	sessions *repository.UserSessionRepository,
	resets *repository.PasswordResetRepository,
	users *UserService,
	cfg config.SecurityConfig,
) *AuthService {
	return &AuthService{
		identities: identities,
		sessions:   sessions,
		resets:     resets,
		users:      users,
		cfg:        cfg,
	}
}

// SignUp creates an identity and bootstraps the stored user profile.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (domain.UserProfile, domain.AuthSession, error) {
	if len(password) < 6 {
		return domain.UserProfile{}, domain.AuthSession{}, ErrWeakPassword
	}
	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		return domain.UserProfile{}, domain.AuthSession{}, ErrEmailInUse
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}

	uid := uuid.NewString()
	profile := domain.UserProfile{UID: uid, DisplayName: displayName, Email: email}
	if _, err := s.users.FindOrCreate(ctx, profile); err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}
	if _, err := s.identities.Create(ctx, uid, email, string(hash)); err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}

	session, err := s.issueSession(ctx, uid, domain.TokenKindWeb, s.cfg.SessionTTL)
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}
	return profile, session, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.UserProfile, domain.AuthSession, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserProfile{}, domain.AuthSession{}, ErrUserNotFound
	}
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}
	if identity.Disabled {
		return domain.UserProfile{}, domain.AuthSession{}, ErrUserDisabled
	}
	if s.throttled(identity) {
		return domain.UserProfile{}, domain.AuthSession{}, ErrTooManyRequests
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		_ = s.identities.RecordFailedLogin(ctx, identity.UID)
		return domain.UserProfile{}, domain.AuthSession{}, ErrInvalidCredentials
	}
	_ = s.identities.ClearFailedLogins(ctx, identity.UID)

	profile, err := s.users.FindOrCreate(ctx, domain.UserProfile{
		UID:         identity.UID,
		DisplayName: "User",
		Email:       identity.Email,
	})
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}
	if stored, err := s.users.Get(ctx, identity.UID); err == nil {
		profile = stored
	}

	session, err := s.issueSession(ctx, identity.UID, domain.TokenKindWeb, s.cfg.SessionTTL)
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}
	return profile, session, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}

// Verify resolves a web session token to its user.
func (s *AuthService) Verify(ctx context.Context, token string) (domain.UserProfile, domain.AuthSession, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, ErrSessionNotFound
	}
	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByToken(ctx, token)
		return domain.UserProfile{}, domain.AuthSession{}, ErrSessionExpired
	}
	user, err := s.users.Get(ctx, session.UID)
	if err != nil {
		return domain.UserProfile{}, domain.AuthSession{}, err
	}
	_ = s.sessions.Touch(ctx, session.ID)
	return user, session, nil
}

// VerifyIDToken validates a dashboard-issued token and mints a fresh custom
// token the desktop app can sign in with.
func (s *AuthService) VerifyIDToken(ctx context.Context, token string) (IdentityClaims, string, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return IdentityClaims{}, "", ErrSessionNotFound
	}
	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByToken(ctx, token)
		return IdentityClaims{}, "", ErrSessionExpired
	}

	identity, err := s.identities.Get(ctx, session.UID)
	if err != nil {
		return IdentityClaims{}, "", ErrSessionNotFound
	}

	claims := IdentityClaims{
		UID:           identity.UID,
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
	}
	if user, err := s.users.Get(ctx, identity.UID); err == nil {
		claims.Name = user.DisplayName
	}

	custom, err := s.IssueCustomToken(ctx, identity.UID)
	if err != nil {
		return IdentityClaims{}, "", err
	}
	return claims, custom, nil
}

// IssueCustomToken creates a short-lived desktop hand-off token.
func (s *AuthService) IssueCustomToken(ctx context.Context, uid string) (string, error) {
	session, err := s.issueSession(ctx, uid, domain.TokenKindDesktop, s.cfg.CustomTokenTTL)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (domain.PasswordReset, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PasswordReset{}, ErrUserNotFound
	}
	if err != nil {
		return domain.PasswordReset{}, err
	}

	token, err := generateToken()
	if err != nil {
		return domain.PasswordReset{}, err
	}
	return s.resets.Create(ctx, identity.UID, token, time.Now().Add(s.cfg.ResetTokenTTL))
}

// ResetPassword consumes a reset token, replaces the password, and revokes
// every open session for the account.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		return ErrResetTokenInvalid
	}
	if reset.Used || reset.ExpiresAt.Before(time.Now()) {
		return ErrResetTokenInvalid
	}
	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.identities.UpdatePassword(ctx, reset.UID, string(hash)); err != nil {
		return err
	}
	return s.sessions.DeleteByUID(ctx, reset.UID)
}

func (s *AuthService) issueSession(ctx context.Context, uid string, kind domain.TokenKind, ttl time.Duration) (domain.AuthSession, error) {
	token, err := generateToken()
	if err != nil {
		return domain.AuthSession{}, err
	}
	return s.sessions.Create(ctx, uid, token, kind, time.Now().Add(ttl))
}

func (s *AuthService) throttled(identity domain.Identity) bool {
	if identity.FailedLogins < maxFailedLogins || identity.LastFailedAt == nil {
		return false
	}
	return time.Since(*identity.LastFailedAt) < failedLoginWindow
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
