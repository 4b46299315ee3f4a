package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/models"
	"evdash/backend/services/dashboard-service/internal/password"
	"evdash/backend/services/dashboard-service/internal/repository"
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SignupInput is a self-registration request.
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult is an issued session token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo        UserRepository
	hasher      password.Hasher
	tokenizer   *identity.TokenService
	revocations identity.Revocations
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService builds AuthService. revocations may be nil, which makes Logout
// a no-op on the server side.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *identity.TokenService, revocations identity.Revocations, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokenizer:   tokenizer,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

// Signup registers a new user. Self-registered accounts always get RoleUser.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, invalid(msgMissingFields)
	}
	if !strings.Contains(email, "@") {
		return nil, invalid("Invalid email")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return nil, invalid("Password must be at least 8 characters")
		}
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user and produces a signed token.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenizer.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the caller's token until it expires.
func (s *AuthService) Logout(ctx context.Context, caller identity.Identity) error {
	if s.revocations == nil || caller.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, caller.TokenID, caller.ExpiresAt); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", caller.ID))
	return nil
}
