// redis_ratelimit.go provides a Redis-backed rate limiter for deployments
// running more than one replica, where the in-memory token bucket would give
// each replica its own budget. Enabled when security.rate_limiting.redis_addr
// is configured; single-node deployments keep the in-memory limiter.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter enforces a shared requests-per-minute budget via Redis.
type RedisRateLimiter struct {
	client    *redis.Client
	limiter   *redis_rate.Limiter
	perMinute int
}

// NewRedisRateLimiter connects to Redis and returns a shared rate limiter.
func NewRedisRateLimiter(addr, password string, db, requestsPerMinute int) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRateLimiter{
		client:    client,
		limiter:   redis_rate.NewLimiter(client),
		perMinute: requestsPerMinute,
	}, nil
}

// Close releases the Redis connection.
func (l *RedisRateLimiter) Close() error {
	return l.client.Close()
}

// Stop satisfies the same shutdown hook shape as the in-memory limiter.
func (l *RedisRateLimiter) Stop() {
	_ = l.Close()
}

// RedisRateLimitMiddleware creates a Gin middleware enforcing the shared limit.
// Redis outages fail open: a rate limiter must not take the API down with it.
func RedisRateLimitMiddleware(l *RedisRateLimiter) gin.HandlerFunc {
	limit := redis_rate.PerMinute(l.perMinute)

	return func(c *gin.Context) {
		key := getRateLimitKey(c)

		res, err := l.limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.perMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
