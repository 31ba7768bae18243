// Package ratelimit provides the injected request limiter used by the
// advisory endpoint: a sliding window counter keyed by client address,
// swappable between an in-process map and a shared Valkey counter for
// multi-process deployments.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a limiter check. RetryAfter is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter answers whether a keyed caller may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config drives the sliding window.
type Config struct {
	Requests int
	Window   time.Duration
	// MaxClients bounds the in-memory key map so it cannot grow without
	// limit under address-spoofing traffic.
	MaxClients int
}

func (c Config) requests() int {
	if c.Requests > 0 {
		return c.Requests
	}
	return 10
}

func (c Config) window() time.Duration {
	if c.Window > 0 {
		return c.Window
	}
	return 60 * time.Second
}
