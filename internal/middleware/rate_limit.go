package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// bucket tracks a request count for one client address inside the current
// window.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) take(max int, window time.Duration, now time.Time) (allowed bool, remaining int, resetAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	remaining = max - b.count
	if remaining < 0 {
		remaining = 0
	}
	return b.count <= max, remaining, b.resetAt
}

// RateLimiter caps requests per client address per window. It is applied
// to the login endpoints only.
type RateLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*bucket),
	}
	go rl.evictLoop()
	return rl
}

// evictLoop drops buckets whose window has expired so memory stays bounded
// on long-running servers.
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for addr, b := range rl.buckets {
			b.mu.Lock()
			expired := now.After(b.resetAt)
			b.mu.Unlock()
			if expired {
				delete(rl.buckets, addr)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) bucketFor(addr string) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[addr]; ok {
		return b
	}
	b := &bucket{resetAt: time.Now().Add(rl.window)}
	rl.buckets[addr] = b
	return b
}

// Allow records one request for addr and reports whether it fits the
// window. Exposed for the middleware and its tests.
func (rl *RateLimiter) Allow(addr string) (bool, int, time.Time) {
	return rl.bucketFor(addr).take(rl.max, rl.window, time.Now())
}

// Handler rejects clients over the limit with 429 and standard RateLimit
// headers.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetAt := rl.Allow(c.ClientIP())

		c.Header("RateLimit-Limit", strconv.Itoa(rl.max))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// LoginRateLimit is the shared limiter for the customer and admin login
// endpoints: 5 attempts per address per 15 minutes.
func LoginRateLimit() gin.HandlerFunc {
	return NewRateLimiter(5, 15*time.Minute).Handler()
}
