package worker

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/adapter/kafka"
	"github.com/polkiloo/safepick/internal/adapter/telegram"
	"github.com/polkiloo/safepick/internal/config"
	"github.com/polkiloo/safepick/internal/domain/repository"
	"github.com/polkiloo/safepick/internal/metrics"
	"github.com/polkiloo/safepick/internal/usecase"
)

// Module provides the notification dispatcher and exposes it as usecase.Notifier.
var Module = fx.Options(
	fx.Provide(
		newDispatcher,
		func(d *Dispatcher) usecase.Notifier { return d },
	),
)

type dispatcherParams struct {
	fx.In

	Claims    repository.ClaimStore
	Sender    telegram.Sender
	Publisher kafka.Publisher
	Metrics   *metrics.Metrics
	Config    *config.Config
	Logger    *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(p.Claims, p.Sender, p.Publisher, p.Metrics, Options{
		Workers:   p.Config.NotifyWorkers,
		QueueSize: p.Config.NotifyQueueSize,
		DedupTTL:  p.Config.NotifyDedupTTL,
	}, p.Logger)
}
