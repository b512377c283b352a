package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the default single-process limiter. Windows reset lazily
// on the next request past their deadline; Sweep drops expired entries so
// the map does not grow with one-off identifiers. State does not survive
// restarts and is not shared across instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	rules   map[Policy]Rule
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter(rules map[Policy]Rule) *MemoryLimiter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &MemoryLimiter{
		rules:   rules,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow counts the request against the policy's current window.
func (l *MemoryLimiter) Allow(_ context.Context, policy Policy, identifier string) (Decision, error) {
	rule, ok := l.rules[policy]
	if !ok {
		// Unconfigured policies are unlimited.
		return Decision{Allowed: true, Limit: -1, Remaining: -1}, nil
	}

	key := string(policy) + ":" + identifier
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{count: 0, resetAt: now.Add(rule.Window)}
		l.windows[key] = w
	}

	if w.count >= rule.MaxRequests {
		return Decision{
			Allowed:   false,
			Limit:     rule.MaxRequests,
			Remaining: 0,
			ResetAt:   w.resetAt,
		}, nil
	}

	w.count++
	return Decision{
		Allowed:   true,
		Limit:     rule.MaxRequests,
		Remaining: rule.MaxRequests - w.count,
		ResetAt:   w.resetAt,
	}, nil
}

// Sweep removes expired windows and returns how many were dropped.
func (l *MemoryLimiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// SweepProcessor adapts Sweep to the jobs.JobProcessor poll loop.
type SweepProcessor struct {
	Limiter *MemoryLimiter
}

func (p *SweepProcessor) ProcessJobs(_ context.Context) error {
	p.Limiter.Sweep()
	return nil
}
