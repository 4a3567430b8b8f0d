package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/eventsystem/service-booking/internal/platform/kafka"
)

// Invalidator drops cached booking view pages.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ChangeConsumer listens to entity change events and drops the booking view
// cache, so pages cached by any instance go stale as soon as another writes.
type ChangeConsumer struct {
	consumer *kafka.Consumer
	cache    Invalidator
	logger   *zap.Logger
}

// NewChangeConsumer creates a new ChangeConsumer.
func NewChangeConsumer(
	brokers []string,
	groupID string,
	topic string,
	cache Invalidator,
	logger *zap.Logger,
) *ChangeConsumer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &ChangeConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic, logger),
		cache:    cache,
		logger:   logger,
	}
}

// Start begins consuming change events. This blocks until the context is cancelled.
func (c *ChangeConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *ChangeConsumer) Close() error {
	return c.consumer.Close()
}

func (c *ChangeConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from change topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if !AffectsBookingView(cloudEvent.Type) {
		c.logger.Debug("ignoring unhandled change event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt EntityChangedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Warn("change event without readable payload",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
	}

	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Error("failed to invalidate booking view cache",
			zap.String("type", cloudEvent.Type),
			zap.String("subject", cloudEvent.Subject),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("booking view cache invalidated",
		zap.String("type", cloudEvent.Type),
		zap.String("entity", evt.Entity),
		zap.Int64("id", evt.ID),
	)
	return nil
}
