package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key (the API keys buckets by
// client IP). Buckets are created lazily and kept for the life of the
// process; the upload service has a small, stable client population.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// New creates a limiter allowing rps sustained requests with the given
// burst per key.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether the key may proceed right now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.rps, l.burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.Allow()
}
