package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// ValkeyLimiter implements the sliding window on a Valkey sorted set so
// several processes can share one counter.
type ValkeyLimiter struct {
	client valkey.Client
	cfg    Config
	prefix string
	now    func() time.Time
}

// NewValkeyLimiter constructs a limiter backed by Valkey.
func NewValkeyLimiter(client valkey.Client, cfg Config, prefix string) *ValkeyLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &ValkeyLimiter{
		client: client,
		cfg:    cfg,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow implements Limiter.
func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	window := l.cfg.window()
	setKey := l.prefix + ":" + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)

	if err := l.client.Do(ctx, l.client.B().Zremrangebyscore().Key(setKey).Min("-inf").Max(cutoff).Build()).Error(); err != nil {
		return Decision{}, fmt.Errorf("prune rate window: %w", err)
	}

	count, err := l.client.Do(ctx, l.client.B().Zcard().Key(setKey).Build()).AsInt64()
	if err != nil {
		return Decision{}, fmt.Errorf("count rate window: %w", err)
	}
	if count >= int64(l.cfg.requests()) {
		return Decision{Allowed: false, RetryAfter: l.retryAfter(ctx, setKey, now, window)}, nil
	}

	score := float64(now.UnixMilli())
	member := strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()
	if err := l.client.Do(ctx, l.client.B().Zadd().Key(setKey).ScoreMember().ScoreMember(score, member).Build()).Error(); err != nil {
		return Decision{}, fmt.Errorf("record request: %w", err)
	}
	seconds := int64(window/time.Second) + 1
	_ = l.client.Do(ctx, l.client.B().Expire().Key(setKey).Seconds(seconds).Build()).Error()

	return Decision{Allowed: true}, nil
}

func (l *ValkeyLimiter) retryAfter(ctx context.Context, setKey string, now time.Time, window time.Duration) time.Duration {
	scores, err := l.client.Do(ctx, l.client.B().Zrange().Key(setKey).Min("0").Max("0").Withscores().Build()).AsZScores()
	if err != nil || len(scores) == 0 {
		return window
	}
	oldest := time.UnixMilli(int64(scores[0].Score))
	wait := oldest.Add(window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

var _ Limiter = (*ValkeyLimiter)(nil)
