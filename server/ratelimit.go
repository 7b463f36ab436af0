package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// rateLimiter implements a simple in-memory token bucket keyed by client IP.
// A nil limiter allows everything.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

type tokenBucket struct {
	tokens     int
	lastRefill time.Time
}

// newRateLimiter returns nil when limit is not positive.
func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		buckets: make(map[string]*tokenBucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow returns true if a request is permitted for the given key.
func (rl *rateLimiter) Allow(key string) bool {
	if rl == nil {
		return true
	}
	if key == "" {
		key = "__global__"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &tokenBucket{tokens: rl.limit - 1, lastRefill: now}
		return true
	}

	// Refill tokens based on elapsed windows.
	elapsed := now.Sub(bucket.lastRefill)
	if elapsed >= rl.window {
		refill := int(elapsed/rl.window) * rl.limit
		bucket.tokens = min(bucket.tokens+refill, rl.limit)
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}

// limit wraps h, answering 429 once a client exhausts its bucket.
func (s *Server) limit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rateLimitKey(r)
		if !s.rateLimiter.Allow(key) {
			s.logDebug("rate limited %s %s", key, r.URL.Path)
			w.Header().Set("Retry-After", retryAfter(s.rateLimiter.window))
			s.writeJSON(w, http.StatusTooManyRequests, apiResponse{Message: "Too Many Requests", Code: "HTTP-429"})
			return
		}
		h.ServeHTTP(w, r)
	})
}

func rateLimitKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

func retryAfter(window time.Duration) string {
	secs := int(window.Round(time.Second) / time.Second)
	return strconv.Itoa(max(secs, 1))
}
