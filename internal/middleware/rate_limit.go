package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether one more request for key fits in the window.
// Returns: allowed, remaining requests, reset time, error
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
}

// RedisLimiter is a fixed-window counter shared through Redis
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow increments the counter for key in the current window
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// LocalLimiter is an in-process token bucket per key, used when Redis is not
// configured. Limit tokens refill evenly over Window. Once per Window, buckets
// that have refilled completely are dropped.
type LocalLimiter struct {
	config    RateLimitConfig
	now       func() time.Time
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
}

// NewLocalLimiter creates a new in-process limiter
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:    config,
		now:       time.Now,
		limiters:  make(map[string]*rate.Limiter),
		lastSweep: time.Now(),
	}
}

// Allow takes one token from the bucket for key
func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := l.now()
	perToken := l.config.Window / time.Duration(l.config.Limit)

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.config.Window {
		l.sweepLocked(now)
	}
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(perToken), l.config.Limit)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	allowed := lim.AllowN(now, 1)
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, now.Add(perToken), nil
}

// sweepLocked drops buckets that are full again; a new bucket for the same
// key starts full, so dropping them changes no decision.
func (l *LocalLimiter) sweepLocked(now time.Time) {
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.config.Limit) {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// Len reports how many keys currently hold a bucket
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// NewLimiter returns a Redis limiter when a client is available and an
// in-process one otherwise
func NewLimiter(redisClient *redis.Client, config RateLimitConfig) Limiter {
	if redisClient == nil {
		return NewLocalLimiter(config)
	}
	return NewRedisLimiter(redisClient, config)
}

// RateLimit returns a Gin middleware that limits requests per client IP.
// Limiter failures let the request through.
func RateLimit(limiter Limiter, config RateLimitConfig, logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if m != nil {
				m.RateLimited.Inc()
			}
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			appErr := apperrors.NewTooManyRequestsError(
				fmt.Sprintf("rate limit of %d requests per %v exceeded", config.Limit, config.Window))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Error: appErr.Message,
				Code:  string(appErr.Code),
			})
			return
		}

		c.Next()
	}
}
