package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.ReportCache = (*RedisReportCache)(nil)

const DefaultReportTTL = 6 * time.Hour

// RedisReportCache stores built reports as JSON under report:{user}:{from}:{to}.
// Each user's keys are also tracked in a set so one call can drop them all.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportCache{client: client, ttl: ttl}
}

func reportKey(userID string, r domain.DateRange) string {
	return fmt.Sprintf("report:%s:%s:%s", userID, r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

func userKeysKey(userID string) string {
	return fmt.Sprintf("report_keys:%s", userID)
}

func (c *RedisReportCache) GetReport(ctx context.Context, userID string, r domain.DateRange) (*domain.Report, error) {
	val, err := c.client.Get(ctx, reportKey(userID, r)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrReportNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("report cache: get failed: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(val, &report); err != nil {
		c.client.Del(ctx, reportKey(userID, r))
		return nil, domain.ErrReportNotCached
	}
	return &report, nil
}

func (c *RedisReportCache) SetReport(ctx context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("report cache: marshal failed: %w", err)
	}

	key := reportKey(report.UserID, report.Range)
	setKey := userKeysKey(report.UserID)

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, c.ttl)
		pipe.SAdd(ctx, setKey, key)
		pipe.Expire(ctx, setKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("report cache: set failed: %w", err)
	}
	return nil
}

func (c *RedisReportCache) InvalidateUser(ctx context.Context, userID string) error {
	setKey := userKeysKey(userID)

	keys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("report cache: list keys failed: %w", err)
	}

	keys = append(keys, setKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("report cache: invalidate failed: %w", err)
	}
	return nil
}
