package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/models"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns per-client-IP token-bucket rate limiting middleware
// powered by golang.org/x/time/rate.
//
// Entries unused for 1 hour are evicted by a background goroutine that
// runs every 5 minutes, preventing unbounded memory growth.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*limiterEntry)

	getLimiter := func(identity string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		entry, ok := limiters[identity]
		if !ok {
			entry = &limiterEntry{
				limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			}
			limiters[identity] = entry
		}
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour)
			mu.Lock()
			for id, entry := range limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(limiters, id)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		limiter := getLimiter(c.ClientIP())
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   models.ErrCodeRateLimited + ": rate limit exceeded, please slow down",
			})
			return
		}
		c.Next()
	}
}
