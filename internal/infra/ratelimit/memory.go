package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps per-key timestamp lists, pruned lazily on each
// check. Suitable for a single process.
type MemoryLimiter struct {
	cfg     Config
	mu      sync.Mutex
	clients map[string][]time.Time
	now     func() time.Time
}

// NewMemoryLimiter constructs the in-process limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	window := l.cfg.window()
	cutoff := now.Add(-window)

	kept := l.clients[key][:0]
	for _, ts := range l.clients[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.cfg.requests() {
		l.clients[key] = kept
		return Decision{Allowed: false, RetryAfter: kept[0].Add(window).Sub(now)}, nil
	}

	if _, known := l.clients[key]; !known {
		l.evictIfFull(cutoff)
	}
	l.clients[key] = append(kept, now)
	return Decision{Allowed: true}, nil
}

// evictIfFull drops idle keys first and, if every key is active, an
// arbitrary one, keeping the map bounded.
func (l *MemoryLimiter) evictIfFull(cutoff time.Time) {
	limit := l.cfg.MaxClients
	if limit <= 0 || len(l.clients) < limit {
		return
	}
	for key, stamps := range l.clients {
		idle := true
		for _, ts := range stamps {
			if ts.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(l.clients, key)
			if len(l.clients) < limit {
				return
			}
		}
	}
	for key := range l.clients {
		delete(l.clients, key)
		return
	}
}

var _ Limiter = (*MemoryLimiter)(nil)
