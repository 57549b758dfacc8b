package kafka

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
)

const (
	topicPartitions  = 3
	topicReplication = 1
)

// Module wires the event publisher.
var Module = fx.Options(
	fx.Provide(newPublisher),
)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka brokers not configured, lifecycle events are not published")
		return NopPublisher{}, nil
	}

	publisher, err := NewPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := publisher.EnsureTopic(ctx, topicPartitions, topicReplication); err != nil {
				p.Logger.Warn("kafka topic bootstrap failed", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher, nil
}
