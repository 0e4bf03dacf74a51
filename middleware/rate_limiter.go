package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Counter is the subset of redis commands the limiter needs; *redis.Client satisfies it
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter is a fixed window limiter keyed per IP, method and route.
// Redis failures let the request through.
func RateLimiter(counter Counter, maxRequests int, window time.Duration, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rl:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()

		count, err := counter.Incr(ctx, key).Result()
		if err != nil {
			log.WarnContext(ctx, "rate limiter unavailable", "request_id", RequestID(c), "error", err)
			c.Next()
			return
		}
		// A key without expiry (first hit, or an earlier EXPIRE that failed)
		// would otherwise count forever.
		reset, ttlErr := counter.TTL(ctx, key).Result()
		if count == 1 || (ttlErr == nil && reset < 0) {
			if err := counter.Expire(ctx, key, window).Err(); err != nil {
				log.WarnContext(ctx, "rate limiter could not set window", "request_id", RequestID(c), "key", key, "error", err)
			}
			reset = window
		}
		if reset <= 0 {
			reset = window
		}
		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		resetSeconds := int(reset.Round(time.Second).Seconds())

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSeconds))

		if int(count) > maxRequests {
			c.Header("Retry-After", strconv.Itoa(resetSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": resetSeconds,
			})
			return
		}
		c.Next()
	}
}
