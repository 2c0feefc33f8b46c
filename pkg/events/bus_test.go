package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"smartparking/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	got []Event
	err error
}

func (s *recordingSink) Forward(_ context.Context, ev Event) error {
	s.got = append(s.got, ev)
	return s.err
}

func TestBus_DeliversToSubscribersOfKind(t *testing.T) {
	bus := NewBus(logger.Discard())

	var favorites, refresh int
	bus.Subscribe(FavoritesChanged, func(context.Context, Event) { favorites++ })
	bus.Subscribe(TabRefresh, func(context.Context, Event) { refresh++ })

	bus.Publish(context.Background(), New(FavoritesChanged, FavoritesPayload{UserID: "u1", SiteID: "s1", Added: true}))

	assert.Equal(t, 1, favorites)
	assert.Equal(t, 0, refresh)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(logger.Discard())

	var calls int
	sub := bus.Subscribe(AvailabilityChanged, func(context.Context, Event) { calls++ })
	bus.Publish(context.Background(), New(AvailabilityChanged, AvailabilityPayload{SiteID: "s1"}))
	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish(context.Background(), New(AvailabilityChanged, AvailabilityPayload{SiteID: "s1"}))

	assert.Equal(t, 1, calls)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus(logger.Discard())

	var delivered bool
	bus.Subscribe(TabRefresh, func(context.Context, Event) { panic("bad listener") })
	bus.Subscribe(TabRefresh, func(context.Context, Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), New(TabRefresh, TabRefreshPayload{Tab: "bookings"}))
	})
	assert.True(t, delivered)
}

func TestBus_ForwardsToSinksEvenWhenFailing(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &recordingSink{}
	bus := NewBus(logger.Discard(), failing, ok)

	bus.Publish(context.Background(), New(ReservationCreated, ReservationPayload{ReservationID: "r1"}))

	assert.Len(t, failing.got, 1)
	assert.Len(t, ok.got, 1)
}

func TestDecode_RestoresTypedPayload(t *testing.T) {
	ev := New(PaymentOrphaned, PaymentOrphanedPayload{PaymentID: "p1", Amount: 7500, Cause: "CONFLICT"})
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, PaymentOrphaned, got.Kind)
	payload, ok := got.Payload.(PaymentOrphanedPayload)
	require.True(t, ok)
	assert.Equal(t, "p1", payload.PaymentID)
	assert.Equal(t, 7500.0, payload.Amount)
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, ReservationCompleted.Valid())
	assert.False(t, Kind("reservation.deleted").Valid())
}
