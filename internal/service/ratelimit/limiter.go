package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	mu       sync.Mutex
	m        map[string]*bucket
	capacity int
	refill   rate.Limit
	idle     time.Duration
	now      func() time.Time
}

// New builds a limiter where every key may burst to capacity and refills at refillPerSec.
// Buckets idle for longer than a full refill are dropped on the next sweep.
func New(capacity int, refillPerSec float64) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	l := &Limiter{
		m:        make(map[string]*bucket),
		capacity: capacity,
		refill:   rate.Limit(refillPerSec),
		now:      time.Now,
	}
	l.idle = time.Minute
	if refillPerSec > 0 {
		if full := time.Duration(float64(capacity) / refillPerSec * float64(time.Second)); full > l.idle {
			l.idle = full
		}
	}
	return l
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		if len(l.m) > 1024 {
			l.sweep(now)
		}
		b = &bucket{lim: rate.NewLimiter(l.refill, l.capacity)}
		l.m[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *Limiter) sweep(now time.Time) {
	for k, b := range l.m {
		if now.Sub(b.seen) > l.idle {
			delete(l.m, k)
		}
	}
}
