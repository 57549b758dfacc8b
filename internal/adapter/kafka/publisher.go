package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/polkiloo/safepick/internal/domain/model"
)

// Publisher emits withdrawal lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) error
}

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Event is the wire form of a lifecycle event. The one-time code is never included.
type Event struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"orderId"`
	GuardianID   string    `json:"guardianId"`
	ChildName    string    `json:"childName"`
	PickerName   string    `json:"pickerName"`
	Relationship string    `json:"relationship"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// KafkaPublisher writes events to a single topic keyed by order id.
type KafkaPublisher struct {
	client producer
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to brokers and produces to topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.RecordRetries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	client, ok := p.client.(*kgo.Client)
	if !ok {
		return nil
	}
	resp, err := kadm.NewClient(client).CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish writes the event for n synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, n model.Notification) error {
	record, err := NewRecord(n)
	if err != nil {
		return err
	}
	record.Topic = p.topic
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", n.DedupKey(), err)
	}
	return nil
}

// Close flushes and closes the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// NewRecord encodes n as a Kafka record.
func NewRecord(n model.Notification) (*kgo.Record, error) {
	value, err := json.Marshal(Event{
		Type:         string(n.Kind),
		OrderID:      n.OrderID,
		GuardianID:   n.GuardianID,
		ChildName:    n.ChildName,
		PickerName:   n.PickerName,
		Relationship: string(n.Relationship),
		OccurredAt:   n.OccurredAt.UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Key:   []byte(n.OrderID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(n.Kind)},
			{Key: "dedup-key", Value: []byte(n.DedupKey())},
		},
	}, nil
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.Notification) error { return nil }
