package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/safepick/internal/adapter/kafka"
	"github.com/polkiloo/safepick/internal/adapter/telegram"
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/domain/repository"
	"github.com/polkiloo/safepick/internal/metrics"
)

const (
	channelQueue    = "queue"
	channelTelegram = "telegram"
	channelKafka    = "kafka"

	maxRetryAfter = 30 * time.Second
)

// Dispatcher delivers guardian notifications on a bounded worker pool.
// Each (kind, order) pair is claimed before delivery so it is sent at most once.
type Dispatcher struct {
	claims    repository.ClaimStore
	sender    telegram.Sender
	publisher kafka.Publisher
	metrics   *metrics.Metrics
	dedupTTL  time.Duration
	workers   int
	logger    *slog.Logger

	jobs   chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// Options tune the dispatcher pool.
type Options struct {
	Workers   int
	QueueSize int
	DedupTTL  time.Duration
}

// NewDispatcher constructs the notification worker pool.
func NewDispatcher(claims repository.ClaimStore, sender telegram.Sender, publisher kafka.Publisher, m *metrics.Metrics, opts Options, logger *slog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.DedupTTL <= 0 {
		opts.DedupTTL = 72 * time.Hour
	}
	return &Dispatcher{
		claims:    claims,
		sender:    sender,
		publisher: publisher,
		metrics:   m,
		dedupTTL:  opts.DedupTTL,
		workers:   opts.Workers,
		logger:    logger,
		jobs:      make(chan model.Notification, opts.QueueSize),
	}
}

// Enqueue schedules n for delivery without blocking the caller.
func (d *Dispatcher) Enqueue(n model.Notification) bool {
	select {
	case d.jobs <- n:
		d.metrics.SetQueueDepth(len(d.jobs))
		return true
	default:
		d.metrics.ObserveNotification(string(n.Kind), channelQueue, "dropped")
		d.logger.Warn("notification queue full",
			slog.String("kind", string(n.Kind)),
			slog.String("order_id", n.OrderID),
		)
		return false
	}
}

// Start launches the workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop cancels the workers and waits for in-flight deliveries.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()

	if pending := len(d.jobs); pending > 0 {
		d.logger.Warn("notifications left undelivered", slog.Int("pending", pending))
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.jobs:
			d.metrics.SetQueueDepth(len(d.jobs))
			d.handle(ctx, n)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, n model.Notification) {
	kind := string(n.Kind)
	log := d.logger.With(slog.String("kind", kind), slog.String("order_id", n.OrderID))

	claimed, err := d.claims.Claim(ctx, "notify:"+n.DedupKey(), d.dedupTTL)
	if err != nil {
		d.metrics.ObserveNotification(kind, channelQueue, "claim_failed")
		log.Error("notification claim failed", slog.String("error", err.Error()))
		return
	}
	if !claimed {
		d.metrics.ObserveNotification(kind, channelQueue, "duplicate")
		log.Info("duplicate notification skipped")
		return
	}

	d.send(ctx, log, n)

	if n.Kind == model.NotificationOrderCompleted || n.Kind == model.NotificationOrderCancelled {
		d.publish(ctx, log, n)
	}
}

func (d *Dispatcher) send(ctx context.Context, log *slog.Logger, n model.Notification) {
	kind := string(n.Kind)

	err := d.sender.Send(ctx, n)
	var limited telegram.TooManyRequestsError
	if errors.As(err, &limited) {
		wait := min(limited.RetryAfter, maxRetryAfter)
		log.Warn("telegram rate limited", slog.Duration("retry_after", wait))
		select {
		case <-ctx.Done():
			d.metrics.ObserveNotification(kind, channelTelegram, "failed")
			return
		case <-time.After(wait):
		}
		err = d.sender.Send(ctx, n)
	}

	switch {
	case err == nil:
		d.metrics.ObserveNotification(kind, channelTelegram, "sent")
	case errors.Is(err, telegram.ErrNoRecipient):
		d.metrics.ObserveNotification(kind, channelTelegram, "skipped")
		log.Info("guardian has no chat configured")
	default:
		d.metrics.ObserveNotification(kind, channelTelegram, "failed")
		log.Error("telegram delivery failed", slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) publish(ctx context.Context, log *slog.Logger, n model.Notification) {
	kind := string(n.Kind)
	if err := d.publisher.Publish(ctx, n); err != nil {
		d.metrics.ObserveNotification(kind, channelKafka, "failed")
		log.Error("event publish failed", slog.String("error", err.Error()))
		return
	}
	d.metrics.ObserveNotification(kind, channelKafka, "sent")
}
