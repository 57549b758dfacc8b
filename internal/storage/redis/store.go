package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	claimPrefix = "safepick:claim:"
	limitPrefix = "safepick:limit:"
)

// Store keeps short-lived keys in Redis.
type Store struct {
	client *goredis.Client
	logger *slog.Logger
}

// New creates a client for url. Connections are opened lazily; call HealthCheck to verify reachability.
func New(url string, logger *slog.Logger) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewWithClient(goredis.NewClient(opts), logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Claim sets key only if absent.
func (s *Store) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, claimPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return ok, nil
}

// Allow increments the counter for key and reports whether it is within limit.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := limitPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return incr.Val() <= int64(limit), nil
}

// HealthCheck pings Redis.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
