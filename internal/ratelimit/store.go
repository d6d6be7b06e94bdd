// Package ratelimit provides fixed-window request counters for the OCR
// routes, backed either by process memory or by Redis when several
// instances share a quota.
package ratelimit

import (
	"context"
	"time"
)

// Store counts hits per key within an expiring window.
type Store interface {
	// Increment adds one hit to key, creating it with the given expiration
	// when absent, and returns the new count and when the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	Close() error
}

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed   bool
	Remaining int64
	Limit     int64
	ResetAt   time.Time
}

// Check records a hit for key and reports whether it is within limit.
func Check(ctx context.Context, store Store, key string, limit int64, window time.Duration) (Result, error) {
	count, resetAt, err := store.Increment(ctx, key, window)
	if err != nil {
		return Result{}, err
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= limit,
		Remaining: remaining,
		Limit:     limit,
		ResetAt:   resetAt,
	}, nil
}
