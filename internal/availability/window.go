package availability

import (
	"time"

	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/model"
)

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow rejects zero-length and inverted windows.
func NewWindow(start, end time.Time) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, apperrors.InvalidInput("start and end time are required")
	}
	if !start.Before(end) {
		return Window{}, apperrors.InvalidInput("end time must be after start time")
	}
	return Window{Start: start, End: end}, nil
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether a and b share any instant. Touching endpoints do not overlap.
func Overlaps(a, b Window) bool {
	latestStart := a.Start
	if b.Start.After(latestStart) {
		latestStart = b.Start
	}
	earliestEnd := a.End
	if b.End.Before(earliestEnd) {
		earliestEnd = b.End
	}
	return latestStart.Before(earliestEnd)
}

// ReservationWindow returns the window held by r.
func ReservationWindow(r *model.Reservation) Window {
	return Window{Start: r.StartTime, End: r.EndTime}
}

// FirstConflict returns the first active reservation in existing that holds slotNumber
// during w, skipping the reservation with ID exceptID.
func FirstConflict(existing []*model.Reservation, slotNumber string, w Window, exceptID string) *model.Reservation {
	for _, r := range existing {
		if r == nil || r.ID == exceptID || r.Status != model.StatusActive || r.SlotNumber != slotNumber {
			continue
		}
		if Overlaps(ReservationWindow(r), w) {
			return r
		}
	}
	return nil
}
