package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares fixed windows across instances: INCR on the window
// key, EXPIRE on first hit. Key TTL is the window reset.
type RedisLimiter struct {
	client *redis.Client
	rules  map[Policy]Rule
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, rules map[Policy]Rule) *RedisLimiter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &RedisLimiter{client: client, rules: rules, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, policy Policy, identifier string) (Decision, error) {
	rule, ok := l.rules[policy]
	if !ok {
		return Decision{Allowed: true, Limit: -1, Remaining: -1}, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", policy, identifier)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rule.Window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis window update: %w", err)
	}

	count := int(incr.Val())
	resetAt := l.now().Add(rule.Window)
	if d := ttl.Val(); d > 0 {
		resetAt = l.now().Add(d)
	}

	if count > rule.MaxRequests {
		return Decision{
			Allowed:   false,
			Limit:     rule.MaxRequests,
			Remaining: 0,
			ResetAt:   resetAt,
		}, nil
	}
	return Decision{
		Allowed:   true,
		Limit:     rule.MaxRequests,
		Remaining: rule.MaxRequests - count,
		ResetAt:   resetAt,
	}, nil
}
