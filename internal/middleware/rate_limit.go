package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/devworkshop/usersvc/internal/constants"
	"github.com/devworkshop/usersvc/pkg/logger"
	redisclient "github.com/devworkshop/usersvc/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter throttles per client IP over a fixed window. When a Redis
// client is available the counters live there so limits hold across
// replicas; otherwise an in-process window is used.
type RateLimiter struct {
	redis      *redisclient.Client
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(redis *redisclient.Client, maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:      redis,
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// allowLocal is the in-process fallback window.
func (rl *RateLimiter) allowLocal(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[ip]
	if len(tokens) >= rl.maxRequest {
		return false, 0
	}

	rl.tokens[ip] = append(tokens, now)
	return true, rl.maxRequest - len(tokens) - 1
}

func (rl *RateLimiter) allow(c *gin.Context, ip string, now time.Time) (bool, int) {
	if rl.redis != nil && rl.redis.IsEnabled() {
		count, err := rl.redis.IncrementWindow(c.Request.Context(), "ratelimit:"+ip, rl.duration)
		if err == nil {
			if count > int64(rl.maxRequest) {
				return false, 0
			}
			return true, rl.maxRequest - int(count)
		}
		logger.GetLogger().Warn("Redis rate limit unavailable, using local window",
			zap.Error(err),
		)
	}
	return rl.allowLocal(ip, now)
}

func RateLimit(redis *redisclient.Client, maxRequest int, duration time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(redis, maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		allowed, remaining := limiter.allow(c, ip, now)
		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.Header("Retry-After", fmt.Sprintf("%.0f", duration.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse("Rate limit exceeded", nil))
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(duration).Unix()))

		c.Next()
	}
}
