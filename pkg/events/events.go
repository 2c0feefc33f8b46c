package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	FavoritesChanged     Kind = "favorites.changed"
	TabRefresh           Kind = "tab.refresh"
	AvailabilityChanged  Kind = "availability.changed"
	ReservationCreated   Kind = "reservation.created"
	ReservationCancelled Kind = "reservation.cancelled"
	ReservationExtended  Kind = "reservation.extended"
	ReservationCompleted Kind = "reservation.completed"
	PaymentOrphaned      Kind = "payment.orphaned"
)

var kinds = map[Kind]struct{}{
	FavoritesChanged:     {},
	TabRefresh:           {},
	AvailabilityChanged:  {},
	ReservationCreated:   {},
	ReservationCancelled: {},
	ReservationExtended:  {},
	ReservationCompleted: {},
	PaymentOrphaned:      {},
}

func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Event is the envelope carried on the bus. Payload is one of the typed payloads below.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type FavoritesPayload struct {
	UserID string `json:"userID"`
	SiteID string `json:"parkingSpotID"`
	Added  bool   `json:"added"`
}

type TabRefreshPayload struct {
	UserID string `json:"userID"`
	Tab    string `json:"tab"`
}

type AvailabilityPayload struct {
	SiteID     string `json:"parkingSpotID"`
	SlotNumber string `json:"slotNumber"`
}

type ReservationPayload struct {
	ReservationID string    `json:"reservationID"`
	UserID        string    `json:"userID"`
	SiteID        string    `json:"parkingSpotID"`
	SlotNumber    string    `json:"slotNumber"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	TotalPrice    float64   `json:"totalPrice"`
	Reason        string    `json:"reason,omitempty"`
}

type PaymentOrphanedPayload struct {
	PaymentID     string  `json:"paymentID"`
	UserID        string  `json:"userID"`
	Amount        float64 `json:"amount"`
	ReservationID string  `json:"reservationID,omitempty"`
	Cause         string  `json:"cause"`
}

func New(kind Kind, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Decode rebuilds an Event from its JSON form, restoring the typed payload for known kinds.
func Decode(data []byte) (Event, error) {
	var raw struct {
		ID         string          `json:"id"`
		Kind       Kind            `json:"kind"`
		OccurredAt time.Time       `json:"occurredAt"`
		Payload    json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, err
	}

	ev := Event{ID: raw.ID, Kind: raw.Kind, OccurredAt: raw.OccurredAt}
	var err error
	switch raw.Kind {
	case FavoritesChanged:
		ev.Payload, err = decodePayload[FavoritesPayload](raw.Payload)
	case TabRefresh:
		ev.Payload, err = decodePayload[TabRefreshPayload](raw.Payload)
	case AvailabilityChanged:
		ev.Payload, err = decodePayload[AvailabilityPayload](raw.Payload)
	case ReservationCreated, ReservationCancelled, ReservationExtended, ReservationCompleted:
		ev.Payload, err = decodePayload[ReservationPayload](raw.Payload)
	case PaymentOrphaned:
		ev.Payload, err = decodePayload[PaymentOrphanedPayload](raw.Payload)
	default:
		var m map[string]any
		if len(raw.Payload) > 0 {
			err = json.Unmarshal(raw.Payload, &m)
		}
		ev.Payload = m
	}
	return ev, err
}

func decodePayload[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	err := json.Unmarshal(data, &v)
	return v, err
}
