package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/config"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

const headerEventType = "event-type"

// Kafka errors
var (
	ErrNoBrokers = errors.New("event: kafka brokers are not configured")
	ErrNoTopic   = errors.New("event: kafka topic is not configured")
)

// producer is the part of *kgo.Client the publisher needs
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher writes domain events to a Kafka topic keyed by aggregate ID,
// so events of one booking or campaign stay ordered within a partition.
type KafkaPublisher struct {
	client producer
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher connects a franz-go producer
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, ErrNoTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID("masgolf-backend"),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RecordRetries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return newKafkaPublisher(client, cfg.Topic, logger), nil
}

func newKafkaPublisher(client producer, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}
}

// Publish produces one record per event and waits for the acks
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]*kgo.Record, 0, len(events))
	for _, e := range events {
		value, err := Encode(e)
		if err != nil {
			return err
		}
		records = append(records, &kgo.Record{
			Topic:     p.topic,
			Key:       []byte(e.AggregateID().String()),
			Value:     value,
			Timestamp: e.OccurredAt(),
			Headers:   []kgo.RecordHeader{{Key: headerEventType, Value: []byte(e.EventType())}},
		})
	}
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce %d events: %w", len(records), err)
	}
	p.logger.Debug("Events produced", zap.Int("count", len(records)), zap.String("topic", p.topic))
	return nil
}

// Close flushes and closes the producer
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)
