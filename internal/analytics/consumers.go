package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/urlpool/internal/messaging"
	"go.uber.org/zap"
)

// RegisterConsumers wires one consumer per analytics topic into the
// group, all persisting to the same store.
func RegisterConsumers(
	group *messaging.ConsumerGroup,
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) {
	group.Add(messaging.NewConsumer(subscriber, TopicURLCreated,
		func(ctx context.Context, event *URLCreatedEvent) error {
			return store.SaveURLCreated(ctx, event)
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, TopicURLAccessed,
		func(ctx context.Context, event *URLAccessedEvent) error {
			return store.SaveURLAccessed(ctx, event)
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, TopicURLExpired,
		func(ctx context.Context, event *URLExpiredEvent) error {
			return store.SaveURLExpired(ctx, event)
		}, logger))
}
