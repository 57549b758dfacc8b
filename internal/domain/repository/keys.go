package repository

import (
	"context"
	"time"
)

// ClaimStore records one-shot keys such as notification dedup markers.
type ClaimStore interface {
	// Claim returns true only for the first caller of key within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RateLimiter counts attempts per key inside a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
