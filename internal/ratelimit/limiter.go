// Package ratelimit implements fixed-window request counting per
// (policy, identifier) pair.
package ratelimit

import (
	"context"
	"time"
)

// Policy names one rate-limited surface of the API.
type Policy string

const (
	PolicyChat        Policy = "chat"
	PolicyUpload      Policy = "upload"
	PolicyGraphSearch Policy = "graphSearch"
	PolicyWebSearch   Policy = "webSearch"
)

// Rule is a window/limit pair.
type Rule struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultRules returns the per-policy limits.
func DefaultRules() map[Policy]Rule {
	return map[Policy]Rule{
		PolicyChat:        {Window: time.Minute, MaxRequests: 10},
		PolicyUpload:      {Window: 10 * time.Minute, MaxRequests: 5},
		PolicyGraphSearch: {Window: time.Minute, MaxRequests: 30},
		PolicyWebSearch:   {Window: time.Minute, MaxRequests: 20},
	}
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) int {
	secs := int(d.ResetAt.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limiter decides whether a request may proceed. Implementations differ in
// where the window state lives: process memory or Redis.
type Limiter interface {
	Allow(ctx context.Context, policy Policy, identifier string) (Decision, error)
}
