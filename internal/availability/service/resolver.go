package service

import (
	"context"
	"sync"
	"time"

	"smartparking/internal/availability"
	"smartparking/pkg/config"
	"smartparking/pkg/model"
)

type SlotSource interface {
	Slots(ctx context.Context, siteID string) ([]model.Slot, error)
}

type ActiveReservationSource interface {
	ListActiveBySite(ctx context.Context, siteID string) ([]*model.Reservation, error)
}

// Resolver computes which slots of a site are free for a window. It never writes
// and never trusts the stored Slot.IsAvailable flag.
type Resolver interface {
	Resolve(ctx context.Context, siteID string, start, end time.Time) ([]model.SlotAvailability, error)
}

type resolver struct {
	slots        SlotSource
	reservations ActiveReservationSource
	cfg          *config.Config
}

func NewResolver(slots SlotSource, reservations ActiveReservationSource, cfg *config.Config) Resolver {
	return &resolver{
		slots:        slots,
		reservations: reservations,
		cfg:          cfg,
	}
}

func (r *resolver) Resolve(ctx context.Context, siteID string, start, end time.Time) ([]model.SlotAvailability, error) {
	window, err := availability.NewWindow(start, end)
	if err != nil {
		return nil, err
	}

	var slots []model.Slot
	var active []*model.Reservation
	var errSlots, errActive error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		slots, errSlots = r.slots.Slots(ctx, siteID)
	}()

	go func() {
		defer wg.Done()
		active, errActive = r.reservations.ListActiveBySite(ctx, siteID)
	}()

	wg.Wait()
	if errSlots != nil {
		return nil, errSlots
	}
	if errActive != nil {
		return nil, errActive
	}

	occupied := make(map[string]struct{})
	for _, res := range active {
		if res == nil || res.Status != model.StatusActive {
			continue
		}
		if availability.Overlaps(availability.ReservationWindow(res), window) {
			occupied[res.SlotNumber] = struct{}{}
		}
	}

	result := make([]model.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		_, taken := occupied[slot.SlotNumber]
		slot.IsAvailable = !taken
		result = append(result, model.SlotAvailability{Slot: slot, IsFree: !taken})
	}

	r.cfg.Log.Debug("Availability resolved",
		"site_id", siteID,
		"slots", len(result),
		"occupied", len(occupied),
	)
	return result, nil
}

// FreeCount returns how many entries are free.
func FreeCount(result []model.SlotAvailability) int {
	n := 0
	for _, a := range result {
		if a.IsFree {
			n++
		}
	}
	return n
}
