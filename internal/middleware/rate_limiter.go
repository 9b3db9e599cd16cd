package middleware

import (
	"net/http"
	"sync"
	"time"

	"intercolor/internal/apierror"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements per-IP sliding window rate limiting. Used on the
// auth endpoints to slow down credential stuffing.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go rl.purge()
	return rl
}

// purge drops expired windows so the map does not grow unbounded.
func (rl *RateLimiter) purge() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for ip, times := range rl.requests {
			kept := times[:0]
			for _, t := range times {
				if t.After(cutoff) {
					kept = append(kept, t)
				}
			}
			if len(kept) == 0 {
				delete(rl.requests, ip)
			} else {
				rl.requests[ip] = kept
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	times := rl.requests[ip]
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rl.limit {
		rl.requests[ip] = kept
		return false
	}

	rl.requests[ip] = append(kept, now)
	return true
}

// GlobalRateLimiter is the request limiter applied to the whole API.
func GlobalRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return NewRateLimiter(limit, window).Middleware()
}

// LoginRateLimiter is a stricter per-IP limit for the credential endpoints.
func LoginRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(10, time.Minute).Middleware()
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes, intente mas tarde"))
			return
		}
		c.Next()
	}
}
