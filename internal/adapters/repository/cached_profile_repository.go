package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ domain.ProfileRepository = (*CachedProfileRepository)(nil)

const targetsTTL = 30 * time.Minute

// CachedProfileRepository is a read-through Redis cache in front of the goals store.
type CachedProfileRepository struct {
	next   domain.ProfileRepository
	cache  *redis.Client
	logger *zap.Logger
}

func NewCachedProfileRepository(next domain.ProfileRepository, cache *redis.Client, logger *zap.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func (r *CachedProfileRepository) cacheKey(userID string) string {
	return fmt.Sprintf("targets:%s", userID)
}

func (r *CachedProfileRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		r.logger.Warn("failed to invalidate cached targets", zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *CachedProfileRepository) GetTargets(ctx context.Context, userID string) (*domain.Targets, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var targets domain.Targets
		if err := json.Unmarshal(val, &targets); err == nil {
			targets.UserID = userID
			return &targets, nil
		}

		r.logger.Warn("corrupted cached targets, cleaning up key", zap.String("user_id", userID))
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("redis read error", zap.Error(err))
	}

	targets, err := r.next.GetTargets(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(targets); err == nil {
		if setErr := r.cache.Set(ctx, key, data, targetsTTL).Err(); setErr != nil {
			r.logger.Warn("redis set error", zap.Error(setErr))
		}
	}

	return targets, nil
}

func (r *CachedProfileRepository) SaveTargets(ctx context.Context, targets *domain.Targets) error {
	if err := r.next.SaveTargets(ctx, targets); err != nil {
		return err
	}
	r.invalidate(ctx, targets.UserID)
	return nil
}
