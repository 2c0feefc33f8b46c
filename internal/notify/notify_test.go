package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"smartparking/pkg/events"
	"smartparking/pkg/kafka"
	"smartparking/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	got []kafka.Message
	err error
}

func (p *capturePublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.got = append(p.got, msg)
	return p.err
}

func TestKafkaSink_ForwardsEventAsMessage(t *testing.T) {
	pub := &capturePublisher{}
	sink := NewKafkaSink(pub, logger.Discard())
	ev := events.New(events.ReservationCreated, events.ReservationPayload{
		ReservationID: "r1",
		UserID:        "u1",
		SiteID:        "TATU",
		SlotNumber:    "A1",
	})

	require.NoError(t, sink.Forward(context.Background(), ev))

	require.Len(t, pub.got, 1)
	msg := pub.got[0]
	assert.Equal(t, "TATU", msg.Key)
	assert.Equal(t, ev.ID, msg.GetEventID())
	assert.Equal(t, string(events.ReservationCreated), msg.GetEventType())
	assert.Equal(t, Source, msg.Headers[kafka.HeaderSource])

	decoded, err := events.Decode(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, "r1", decoded.Payload.(events.ReservationPayload).ReservationID)
}

func TestKafkaSink_WrapsPublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	sink := NewKafkaSink(pub, logger.Discard())

	err := sink.Forward(context.Background(), events.New(events.TabRefresh, events.TabRefreshPayload{UserID: "u1", Tab: "bookings"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestPartitionKey(t *testing.T) {
	tests := []struct {
		name string
		ev   events.Event
		want string
	}{
		{"availability by site", events.New(events.AvailabilityChanged, events.AvailabilityPayload{SiteID: "URDU"}), "URDU"},
		{"favorites by user", events.New(events.FavoritesChanged, events.FavoritesPayload{UserID: "u7", SiteID: "SUM"}), "u7"},
		{"orphan by user", events.New(events.PaymentOrphaned, events.PaymentOrphanedPayload{UserID: "u2"}), "u2"},
		{"falls back to kind", events.New(events.TabRefresh, events.TabRefreshPayload{}), string(events.TabRefresh)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartitionKey(tt.ev))
		})
	}
}

func TestReplayer_RepublishesOntoBus(t *testing.T) {
	bus := events.NewBus(logger.Discard())
	var got []events.Event
	bus.Subscribe(events.FavoritesChanged, func(_ context.Context, ev events.Event) {
		got = append(got, ev)
	})

	ev := events.New(events.FavoritesChanged, events.FavoritesPayload{UserID: "u1", SiteID: "GIPER", Added: true})
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	err = NewReplayer(bus, logger.Discard()).Handle(context.Background(), kafka.Message{Value: data})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].ID)
	assert.Equal(t, "GIPER", got[0].Payload.(events.FavoritesPayload).SiteID)
}

func TestReplayer_RejectsBadMessagesPermanently(t *testing.T) {
	r := NewReplayer(events.Nop{}, logger.Discard())

	err := r.Handle(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	err = r.Handle(context.Background(), kafka.Message{Value: []byte(`{"id":"e1","kind":"reservation.deleted"}`)})
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
	assert.ErrorIs(t, err, kafka.ErrInvalidMessage)
}

func TestLogAll_SubscribesEveryKind(t *testing.T) {
	bus := events.NewBus(logger.Discard())
	subs := LogAll(bus, logger.Discard())
	assert.Len(t, subs, 8)
	for _, s := range subs {
		s.Unsubscribe()
	}
}
