package event

import (
	"context"
	"errors"

	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FanoutPublisher publishes to every target and joins their errors
type FanoutPublisher struct {
	targets []shared.EventPublisher
}

// NewFanoutPublisher creates a publisher over targets
func NewFanoutPublisher(targets ...shared.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{targets: targets}
}

// Publish sends events to all targets even if one fails
func (f *FanoutPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewPublisher returns the in-process bus, fanned out to Kafka when enabled.
// The returned close function releases the Kafka producer.
func NewPublisher(cfg config.KafkaConfig, bus *InMemoryEventBus, logger *zap.Logger) (shared.EventPublisher, func(), error) {
	if !cfg.Enabled {
		return bus, func() {}, nil
	}
	kafka, err := NewKafkaPublisher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Kafka event stream enabled", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return NewFanoutPublisher(bus, kafka), kafka.Close, nil
}

var _ shared.EventPublisher = (*FanoutPublisher)(nil)
