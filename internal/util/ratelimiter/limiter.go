package ratelimiter

import (
	"sync"
	"time"
)

// Limiter allows one action per interval for each key, e.g. per client
// address. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

// New creates a limiter allowing at most one action per interval per key.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether key may act now. When it may, the time is
// recorded; otherwise the remaining wait is returned.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if last, ok := l.last[key]; ok {
		if since := now.Sub(last); since < l.interval {
			return false, l.interval - since
		}
	}
	l.last[key] = now
	return true, 0
}

// Blocked reports whether key is inside its interval, without recording.
func (l *Limiter) Blocked(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.last[key]
	if !ok {
		return false, 0
	}
	if since := l.now().Sub(last); since < l.interval {
		return true, l.interval - since
	}
	return false, 0
}

// Reset forgets key, allowing its next action immediately.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.last, key)
	l.mu.Unlock()
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}

// Interval returns the configured rate limit interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// prune drops expired keys so the map stays bounded by active clients
func (l *Limiter) prune(now time.Time) {
	for k, t := range l.last {
		if now.Sub(t) >= l.interval {
			delete(l.last, k)
		}
	}
}
