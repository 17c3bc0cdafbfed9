package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stcolombus/campus-portal/internal/response"
)

// RateLimiter is a per-client token bucket. Each bucket holds at most rate
// tokens and is refilled in full every interval.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	interval time.Duration
	now      func() time.Time
}

type visitor struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// NewRateLimiter creates a RateLimiter (e.g., 5 submissions per hour). Stale
// buckets are swept until ctx is done.
func NewRateLimiter(ctx context.Context, rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup()
			}
		}
	}()

	return rl
}

// Middleware returns a Gin middleware that rate-limits requests by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.take(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{tokens: rl.rate, lastRefill: now}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	if periods := int(now.Sub(v.lastRefill) / rl.interval); periods > 0 {
		v.tokens = min(rl.rate, v.tokens+periods*rl.rate)
		v.lastRefill = v.lastRefill.Add(time.Duration(periods) * rl.interval)
	}

	if v.tokens <= 0 {
		return false, v.lastRefill.Add(rl.interval).Sub(now)
	}
	v.tokens--
	return true, 0
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	idle := max(3*time.Minute, rl.interval)
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > idle {
			delete(rl.visitors, ip)
		}
	}
}
