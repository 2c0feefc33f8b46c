package events

import (
	"context"
	"sync"

	"smartparking/pkg/logger"
)

type Handler func(ctx context.Context, ev Event)

// Sink receives every published event, for example to forward it to Kafka.
type Sink interface {
	Forward(ctx context.Context, ev Event) error
}

// Publisher is the narrow interface services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type Subscription struct {
	bus  *Bus
	kind Kind
	id   uint64
	once sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s.kind, s.id)
	})
}

// Bus delivers events synchronously to the handlers subscribed at publish time.
// Delivery is best effort and at most once; a panicking handler is logged and skipped.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Kind]map[uint64]Handler
	sinks    []Sink
	log      *logger.Logger
}

func NewBus(log *logger.Logger, sinks ...Sink) *Bus {
	return &Bus{
		handlers: make(map[Kind]map[uint64]Handler),
		sinks:    sinks,
		log:      log.With("event_bus"),
	}
}

func (b *Bus) Subscribe(kind Kind, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[uint64]Handler)
	}
	b.handlers[kind][b.nextID] = h
	return &Subscription{bus: b, kind: kind, id: b.nextID}
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers[kind], id)
	if len(b.handlers[kind]) == 0 {
		delete(b.handlers, kind)
	}
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[ev.Kind]))
	for _, h := range b.handlers[ev.Kind] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, h, ev)
	}

	for _, sink := range b.sinks {
		if err := sink.Forward(ctx, ev); err != nil {
			b.log.Warn("Failed to forward event", "event_id", ev.ID, "kind", ev.Kind, "error", err)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Event handler panicked", "event_id", ev.ID, "kind", ev.Kind, "panic", r)
		}
	}()
	h(ctx, ev)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
