// Package ratelimit implements the process-wide token-bucket limiter keyed
// by (provider, operation) used by embedding and LLM calls (spec §2.2, §5).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of a Limiter.Allow call.
type Decision struct {
	Allowed bool
	Backoff time.Duration // set when !Allowed: suggested wait before retry
}

// Key identifies a bucket.
type Key struct {
	Provider  string
	Operation string
}

// Limiter holds one token bucket per (provider, operation) key. Concurrent
// callers contend only on the bucket's own atomic state, never on a global
// lock beyond the map lookup (spec §5).
type Limiter struct {
	mu      sync.RWMutex
	buckets map[Key]*rate.Limiter
	// ratePerSec and burst configure the bucket built the first time a key
	// is seen.
	ratePerSec float64
	burst      int
}

// New creates a Limiter where every (provider, operation) key gets its own
// bucket refilling at ratePerSec tokens/second with the given burst size.
func New(ratePerSec float64, burst int) *Limiter {
	return &Limiter{
		buckets:    make(map[Key]*rate.Limiter),
		ratePerSec: ratePerSec,
		burst:      burst,
	}
}

func (l *Limiter) bucket(key Key) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[key]; ok {
		return b
	}
	b = rate.NewLimiter(rate.Limit(l.ratePerSec), l.burst)
	l.buckets[key] = b
	return b
}

// Allow consults the bucket for (provider, operation) and returns either ok
// or a suggested backoff. It never blocks the caller.
func (l *Limiter) Allow(key Key) Decision {
	b := l.bucket(key)
	r := b.Reserve()
	if !r.OK() {
		return Decision{Allowed: false, Backoff: time.Second}
	}
	delay := r.Delay()
	if delay > 0 {
		r.Cancel()
		return Decision{Allowed: false, Backoff: delay}
	}
	return Decision{Allowed: true}
}

// SetLimit reconfigures the bucket for a key, creating it if absent. Used to
// give a specific provider+operation pair a different rate than the default.
func (l *Limiter) SetLimit(key Key, ratePerSec float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets[key] = rate.NewLimiter(rate.Limit(ratePerSec), burst)
}
