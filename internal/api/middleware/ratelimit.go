package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/smartblog/pkg/response"
)

// RateLimiter hands out one token bucket per caller. Used in front of the AI
// endpoints, which fan out to a metered upstream.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Middleware rejects the request with 429 when the caller's bucket is empty.
// Buckets are keyed by user when authenticated, client IP otherwise.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if u := CurrentUser(c); u != nil {
			key = u.ID
		}
		if !rl.limiter(key).Allow() {
			response.TooManyRequests(c, "Too many generation requests, slow down")
			return
		}
		c.Next()
	}
}
