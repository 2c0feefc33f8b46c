package notify

import (
	"context"

	"smartparking/pkg/events"
	"smartparking/pkg/kafka"
	"smartparking/pkg/logger"
)

// Replayer turns consumed Kafka messages back into bus events.
type Replayer struct {
	bus events.Publisher
	log *logger.Logger
}

func NewReplayer(bus events.Publisher, log *logger.Logger) *Replayer {
	return &Replayer{
		bus: bus,
		log: log.With("replayer"),
	}
}

// Handle is a kafka.MessageHandler. Undecodable messages and unknown kinds are
// permanent failures and go to the dead-letter topic without retries.
func (r *Replayer) Handle(ctx context.Context, msg kafka.Message) error {
	ev, err := events.Decode(msg.Value)
	if err != nil {
		return kafka.NewPermanentError("decode event", err)
	}
	if !ev.Kind.Valid() {
		return kafka.NewPermanentError("unknown event kind "+string(ev.Kind), kafka.ErrInvalidMessage)
	}

	r.bus.Publish(ctx, ev)
	return nil
}

// LogAll subscribes a logging handler for every event kind and returns the
// subscriptions so the caller can release them on shutdown.
func LogAll(bus *events.Bus, log *logger.Logger) []*events.Subscription {
	log = log.With("notifier")
	kinds := []events.Kind{
		events.FavoritesChanged,
		events.TabRefresh,
		events.AvailabilityChanged,
		events.ReservationCreated,
		events.ReservationCancelled,
		events.ReservationExtended,
		events.ReservationCompleted,
		events.PaymentOrphaned,
	}

	subs := make([]*events.Subscription, 0, len(kinds))
	for _, kind := range kinds {
		subs = append(subs, bus.Subscribe(kind, func(_ context.Context, ev events.Event) {
			if ev.Kind == events.PaymentOrphaned {
				log.Error("Payment left without reservation", "event_id", ev.ID, "payload", ev.Payload)
				return
			}
			log.Info("Event received", "event_id", ev.ID, "kind", ev.Kind, "payload", ev.Payload)
		}))
	}
	return subs
}
