package service

import (
	"context"
	"testing"
	"time"

	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSlots struct {
	slots []model.Slot
	err   error
	calls int
}

func (s *stubSlots) Slots(ctx context.Context, siteID string) ([]model.Slot, error) {
	s.calls++
	return s.slots, s.err
}

type stubReservations struct {
	active []*model.Reservation
	err    error
}

func (s *stubReservations) ListActiveBySite(ctx context.Context, siteID string) ([]*model.Reservation, error) {
	return s.active, s.err
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func newResolver(slots *stubSlots, res *stubReservations) Resolver {
	return NewResolver(slots, res, &config.Config{Log: logger.Discard()})
}

func siteSlots() *stubSlots {
	return &stubSlots{slots: []model.Slot{
		{SlotNumber: "A1", Floor: 1, IsAvailable: true},
		{SlotNumber: "A2", Floor: 1, IsAvailable: false},
		{SlotNumber: "B1", Floor: 2, IsAvailable: true},
	}}
}

func freeMap(result []model.SlotAvailability) map[string]bool {
	m := make(map[string]bool, len(result))
	for _, a := range result {
		m[a.Slot.SlotNumber] = a.IsFree
	}
	return m
}

func TestResolve_MarksOverlappingSlotsOccupied(t *testing.T) {
	res := &stubReservations{active: []*model.Reservation{
		{SlotNumber: "A1", Status: model.StatusActive, StartTime: at(14, 0), EndTime: at(15, 30)},
		{SlotNumber: "B1", Status: model.StatusActive, StartTime: at(9, 0), EndTime: at(10, 0)},
	}}

	result, err := newResolver(siteSlots(), res).Resolve(context.Background(), "S", at(15, 0), at(16, 0))
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"A1": false, "A2": true, "B1": true}, freeMap(result))
	assert.Equal(t, 2, FreeCount(result))
}

func TestResolve_IgnoresStoredAvailabilityFlag(t *testing.T) {
	result, err := newResolver(siteSlots(), &stubReservations{}).Resolve(context.Background(), "S", at(15, 0), at(16, 0))
	require.NoError(t, err)

	for _, a := range result {
		assert.True(t, a.IsFree, a.Slot.SlotNumber)
		assert.True(t, a.Slot.IsAvailable, a.Slot.SlotNumber)
	}
}

func TestResolve_BoundaryCases(t *testing.T) {
	res := &stubReservations{active: []*model.Reservation{
		{SlotNumber: "A1", Status: model.StatusActive, StartTime: at(14, 0), EndTime: at(15, 0)},
	}}
	r := newResolver(siteSlots(), res)

	touching, err := r.Resolve(context.Background(), "S", at(15, 0), at(16, 0))
	require.NoError(t, err)
	assert.True(t, freeMap(touching)["A1"], "starting when another ends is free")

	equal, err := r.Resolve(context.Background(), "S", at(14, 0), at(15, 0))
	require.NoError(t, err)
	assert.False(t, freeMap(equal)["A1"], "identical window overlaps")

	inside, err := r.Resolve(context.Background(), "S", at(14, 15), at(14, 30))
	require.NoError(t, err)
	assert.False(t, freeMap(inside)["A1"], "contained window overlaps")
}

func TestResolve_SkipsNonActiveReservations(t *testing.T) {
	res := &stubReservations{active: []*model.Reservation{
		{SlotNumber: "A1", Status: model.StatusCancelled, StartTime: at(14, 0), EndTime: at(15, 0)},
	}}

	result, err := newResolver(siteSlots(), res).Resolve(context.Background(), "S", at(14, 0), at(15, 0))
	require.NoError(t, err)
	assert.True(t, freeMap(result)["A1"])
}

func TestResolve_RejectsBadWindowBeforeLoading(t *testing.T) {
	slots := siteSlots()
	r := newResolver(slots, &stubReservations{})

	_, err := r.Resolve(context.Background(), "S", at(15, 0), at(15, 0))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))

	_, err = r.Resolve(context.Background(), "S", at(16, 0), at(15, 0))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))

	assert.Zero(t, slots.calls)
}

func TestResolve_PropagatesErrors(t *testing.T) {
	_, err := newResolver(&stubSlots{err: apperrors.NotFoundWithID("Site", "X")}, &stubReservations{}).
		Resolve(context.Background(), "X", at(14, 0), at(15, 0))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(err))

	_, err = newResolver(siteSlots(), &stubReservations{err: apperrors.Timeout("slow")}).
		Resolve(context.Background(), "S", at(14, 0), at(15, 0))
	assert.Equal(t, apperrors.CodeTimeout, apperrors.KindOf(err))
}
