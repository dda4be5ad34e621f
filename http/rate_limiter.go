package http

import (
	"sync"
	"time"
)

const (
	idleClientTTL   = 1 * time.Hour
	cleanupInterval = 30 * time.Minute
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// bucket refills in full once window has passed since the last refill.
type bucket struct {
	tokens   int
	refilled time.Time
	lastSeen time.Time
}

func (b *bucket) take(now time.Time, capacity int, window time.Duration) Decision {
	b.lastSeen = now
	if now.Sub(b.refilled) >= window {
		b.tokens = capacity
		b.refilled = now
	}

	d := Decision{Limit: capacity}
	if b.tokens <= 0 {
		d.RetryAfter = window - now.Sub(b.refilled)
		return d
	}

	b.tokens--
	d.Allowed = true
	d.Remaining = b.tokens
	return d
}

// RateLimiter gives every client capacity requests per window. Clients idle
// for longer than an hour are forgotten by a background sweep.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	buckets  map[string]*bucket
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow spends one token for client.
func (r *RateLimiter) Allow(client string) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[client]
	if !ok {
		// Zero refill time forces a full bucket on first use.
		b = &bucket{}
		r.buckets[client] = b
	}
	return b.take(r.now(), r.capacity, r.window)
}

// Stop ends the background sweep. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			return
		}
	}
}

func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for client, b := range r.buckets {
		if now.Sub(b.lastSeen) > idleClientTTL {
			delete(r.buckets, client)
		}
	}
}

func (r *RateLimiter) clientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}
