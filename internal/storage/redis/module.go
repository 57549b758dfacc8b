package redis

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
	"github.com/polkiloo/safepick/internal/domain/repository"
)

// KeyStore is the union of the key-based stores served by this package.
type KeyStore interface {
	repository.ClaimStore
	repository.RateLimiter
	HealthCheck(ctx context.Context) error
	Close() error
}

// Module provides Redis backed claim and rate limit stores.
var Module = fx.Options(
	fx.Provide(newKeyStore),
	fx.Provide(
		func(s KeyStore) repository.ClaimStore { return s },
		func(s KeyStore) repository.RateLimiter { return s },
	),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newKeyStore(p storeParams) (KeyStore, error) {
	if p.Config.RedisURL == "" {
		p.Logger.Warn("redis not configured, using in-memory key store")
		return NewMemory(), nil
	}
	return New(p.Config.RedisURL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, store KeyStore) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.HealthCheck(ctx); err != nil {
				return fmt.Errorf("redis ping: %w", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
}
