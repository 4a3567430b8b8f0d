package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventsystem/service-booking/internal/events"
	"github.com/eventsystem/service-booking/internal/platform/kafka"
)

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// ViewCache caches booking_view search pages. *cache.Namespace satisfies it.
type ViewCache interface {
	Generation(ctx context.Context) (string, error)
	Get(ctx context.Context, generation string, dest interface{}, parts ...string) (bool, error)
	Set(ctx context.Context, generation string, value interface{}, parts ...string) error
	Invalidate(ctx context.Context) error
}

// ChangeNotifier runs after every successful write: it drops cached booking
// view pages and publishes a change event. Both steps are best-effort and
// only log on failure; the write has already happened.
type ChangeNotifier struct {
	publisher EventPublisher
	cache     ViewCache
	topic     string
	logger    *zap.Logger
}

// NewChangeNotifier creates a notifier. publisher and cache may be nil.
func NewChangeNotifier(publisher EventPublisher, cache ViewCache, topic string, logger *zap.Logger) *ChangeNotifier {
	if topic == "" {
		topic = events.DefaultTopic
	}
	return &ChangeNotifier{publisher: publisher, cache: cache, topic: topic, logger: logger}
}

// Notify records that the entity identified by id changed.
func (n *ChangeNotifier) Notify(ctx context.Context, eventType string, id int64) {
	if n == nil {
		return
	}
	if n.cache != nil {
		if err := n.cache.Invalidate(ctx); err != nil {
			n.logger.Warn("failed to invalidate booking view cache",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
		}
	}
	n.publishEvent(ctx, eventType, events.NewEntityChanged(eventType, id))
}

func (n *ChangeNotifier) publishEvent(ctx context.Context, eventType string, data events.EntityChangedEvent) {
	if n.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, data)
	if err != nil {
		n.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = data.Subject()

	if err := n.publisher.PublishEvent(ctx, n.topic, cloudEvent); err != nil {
		n.logger.Error("failed to publish event",
			zap.String("topic", n.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
