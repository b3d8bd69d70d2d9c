package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	repo   domain.UserRepository
	logger *zap.Logger
}

func NewAuthService(repo domain.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		logger: logger,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email, role)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: failed to load user: %w", err)
	}

	if err := user.CheckPassword(input.Password); err != nil {
		s.logger.Debug("login rejected", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
