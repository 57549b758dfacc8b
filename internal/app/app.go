package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
	"github.com/polkiloo/safepick/internal/server/http/handlers"
	"github.com/polkiloo/safepick/internal/storage/postgres"
	"github.com/polkiloo/safepick/internal/storage/redis"
	"github.com/polkiloo/safepick/internal/worker"
)

const readHeaderTimeout = 5 * time.Second

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newHealthChecks,
		NewSafePickFacade,
		func(f *SafePickFacade) handlers.SafePickFacade { return f },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

func newHealthChecks(storage *postgres.Storage, keys redis.KeyStore) map[string]HealthChecker {
	return map[string]HealthChecker{
		"postgres": storage,
		"redis":    keys,
	}
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.Dispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting safepick", slog.String("addr", p.Server.Addr))
			p.Dispatcher.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			// Requests in flight may still enqueue notifications.
			err := p.Server.Shutdown(shutdownCtx)
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("safepick stopped")
			return nil
		},
	})
}
