package notify

import (
	"context"
	"fmt"

	"smartparking/pkg/events"
	"smartparking/pkg/kafka"
	"smartparking/pkg/logger"
)

const Source = "smartparking"

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaSink forwards bus events to a Kafka topic. Events about a site are keyed
// by site so they stay ordered per partition; the rest are keyed by user.
type KafkaSink struct {
	publisher MessagePublisher
	log       *logger.Logger
}

func NewKafkaSink(publisher MessagePublisher, log *logger.Logger) *KafkaSink {
	return &KafkaSink{
		publisher: publisher,
		log:       log.With("kafka_sink"),
	}
}

func (s *KafkaSink) Forward(ctx context.Context, ev events.Event) error {
	msg, err := kafka.NewMessage().
		WithKey(PartitionKey(ev)).
		WithValue(ev).
		WithEventID(ev.ID).
		WithEventType(string(ev.Kind)).
		WithSource(Source).
		WithTimestamp(ev.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("build message for event %s: %w", ev.ID, err)
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", ev.ID, err)
	}
	return nil
}

func PartitionKey(ev events.Event) string {
	var key string
	switch p := ev.Payload.(type) {
	case events.AvailabilityPayload:
		key = p.SiteID
	case events.ReservationPayload:
		key = p.SiteID
	case events.FavoritesPayload:
		key = p.UserID
	case events.TabRefreshPayload:
		key = p.UserID
	case events.PaymentOrphanedPayload:
		key = p.UserID
	}
	if key == "" {
		key = string(ev.Kind)
	}
	return key
}
