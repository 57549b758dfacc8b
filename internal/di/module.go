package di

import (
	"github.com/polkiloo/safepick/internal/adapter/kafka"
	"github.com/polkiloo/safepick/internal/adapter/telegram"
	"github.com/polkiloo/safepick/internal/app"
	"github.com/polkiloo/safepick/internal/config"
	"github.com/polkiloo/safepick/internal/logger"
	"github.com/polkiloo/safepick/internal/metrics"
	"github.com/polkiloo/safepick/internal/pkg/auth"
	"github.com/polkiloo/safepick/internal/pkg/credential"
	"github.com/polkiloo/safepick/internal/pkg/scantoken"
	"github.com/polkiloo/safepick/internal/server/http/router"
	"github.com/polkiloo/safepick/internal/storage/postgres"
	"github.com/polkiloo/safepick/internal/storage/redis"
	"github.com/polkiloo/safepick/internal/tracing"
	"github.com/polkiloo/safepick/internal/usecase"
	"github.com/polkiloo/safepick/internal/worker"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		tracing.Module,
		auth.Module,
		credential.Module,
		scantoken.Module,
		postgres.Module,
		redis.Module,
		telegram.Module,
		kafka.Module,
		usecase.Module,
		worker.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
