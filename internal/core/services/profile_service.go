package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"go.uber.org/zap"
)

type ProfileService struct {
	repo   domain.ProfileRepository
	logger *zap.Logger
}

func NewProfileService(repo domain.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger,
	}
}

// GetTargets falls back to the default goals for users that never saved any.
func (s *ProfileService) GetTargets(ctx context.Context, userID string) (*domain.Targets, error) {
	targets, err := s.repo.GetTargets(ctx, userID)
	if errors.Is(err, domain.ErrTargetsNotFound) {
		return domain.DefaultTargets(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile service: failed to load targets: %w", err)
	}
	return targets, nil
}

type UpdateTargetsInput struct {
	UserID        string
	CalorieTarget int
	ProteinTarget float64
	WaterTargetMl int
}

func (s *ProfileService) UpdateTargets(ctx context.Context, input UpdateTargetsInput) (*domain.Targets, error) {
	targets, err := s.GetTargets(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := targets.Update(input.CalorieTarget, input.ProteinTarget, input.WaterTargetMl); err != nil {
		return nil, err
	}

	if err := s.repo.SaveTargets(ctx, targets); err != nil {
		return nil, fmt.Errorf("profile service: failed to save targets: %w", err)
	}

	s.logger.Info("targets updated",
		zap.String("user_id", input.UserID),
		zap.Int("calories", targets.CalorieTarget),
		zap.Float64("protein", targets.ProteinTarget),
		zap.Int("water_ml", targets.WaterTargetMl),
	)
	return targets, nil
}
