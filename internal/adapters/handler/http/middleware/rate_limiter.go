package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitPrefix = "rate_limit:"

// RateLimitConfig is a fixed window: at most Limit requests per Window per caller.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// rateLimitKey buckets authenticated callers by user id and everyone else by IP.
func rateLimitKey(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return rateLimitPrefix + "user:" + userID
	}
	return rateLimitPrefix + "ip:" + c.ClientIP()
}

// RateLimiterMiddleware counts requests in Redis. Mount it after AuthMiddleware
// to limit per user. It fails open when Redis is unavailable.
func RateLimiterMiddleware(rdb *redis.Client, cfg RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := rateLimitKey(c)

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			logger.Warn("rate limiter skipped", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		count := incr.Val()
		remaining := ttl.Val()
		// A key without expiry would never reset.
		if remaining < 0 {
			if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
				logger.Warn("rate limiter expire failed, dropping key", zap.String("key", key), zap.Error(err))
				rdb.Del(ctx, key)
				c.Next()
				return
			}
			remaining = cfg.Window
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(cfg.Limit)-count), 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(remaining).Unix(), 10))

		if count > int64(cfg.Limit) {
			logger.Info("rate limit exceeded", zap.String("key", key), zap.Int64("count", count))
			c.Header("Retry-After", strconv.Itoa(int(remaining.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"retry_in_s": int(remaining.Seconds()),
			})
			return
		}

		c.Next()
	}
}
