package model

import "time"

type ReservationStatus string

const (
	StatusActive    ReservationStatus = "active"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// StoredTime returns t in UTC at the millisecond precision MongoDB keeps, so
// anything priced from it matches what is persisted.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (s ReservationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Reservation struct {
	ID                  string            `json:"id" bson:"_id"`
	UserID              string            `json:"userID" bson:"userID"`
	SiteID              string            `json:"parkingSpotID" bson:"parkingSpotID"`
	SlotNumber          string            `json:"slotNumber" bson:"slotNumber"`
	VehicleID           string            `json:"vehicleID" bson:"vehicleID"`
	StartTime           time.Time         `json:"startTime" bson:"startTime"`
	EndTime             time.Time         `json:"endTime" bson:"endTime"`
	Status              ReservationStatus `json:"status" bson:"status"`
	TotalPrice          float64           `json:"totalPrice" bson:"totalPrice"`
	PaymentID           string            `json:"paymentID,omitempty" bson:"paymentID,omitempty"`
	ExtensionPaymentIDs []string          `json:"extensionPaymentIDs,omitempty" bson:"extensionPaymentIDs,omitempty"`
	CancellationReason  string            `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CancelledAt         *time.Time        `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CompletedAt         *time.Time        `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	LastExtendedAt      *time.Time        `json:"lastExtendedAt,omitempty" bson:"lastExtendedAt,omitempty"`
	CreatedAt           time.Time         `json:"createdAt" bson:"createdAt"`
}

// ReservationRequest is the input to the ledger's Create.
type ReservationRequest struct {
	UserID     string    `json:"userID" validate:"required,max=128"`
	SiteID     string    `json:"parkingSpotID" validate:"required,max=64"`
	SlotNumber string    `json:"slotNumber" validate:"required,min=1,max=16"`
	VehicleID  string    `json:"vehicleID" validate:"required,max=64"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	EndTime    time.Time `json:"endTime" validate:"required"`
	PaymentID  string    `json:"paymentID,omitempty" validate:"omitempty,max=64"`
}

type ExtendRequest struct {
	NewEndTime time.Time `json:"newEndTime" validate:"required"`
	PaymentID  string    `json:"paymentID,omitempty" validate:"omitempty,max=64"`
}

// ExtensionQuote pins an extension to the end time and amount it was priced
// against. Extend refuses it once the reservation has moved on.
type ExtensionQuote struct {
	ReservationID string    `json:"reservationID"`
	CurrentEnd    time.Time `json:"currentEndTime"`
	NewEnd        time.Time `json:"newEndTime"`
	Amount        float64   `json:"amount"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CheckoutRequest is the client's booking body. The user comes from the caller's identity.
type CheckoutRequest struct {
	SiteID        string    `json:"parkingSpotID" validate:"required,max=64"`
	SlotNumber    string    `json:"slotNumber" validate:"required,min=1,max=16"`
	VehicleID     string    `json:"vehicleID" validate:"required,max=64"`
	StartTime     time.Time `json:"startTime" validate:"required"`
	EndTime       time.Time `json:"endTime" validate:"required"`
	PaymentMethod string    `json:"paymentMethod" validate:"required,payment_method"`
}

type CheckoutExtendRequest struct {
	NewEndTime    time.Time `json:"newEndTime" validate:"required"`
	PaymentMethod string    `json:"paymentMethod" validate:"required,payment_method"`
}

type Quote struct {
	SiteID       string    `json:"parkingSpotID"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Units        int64     `json:"units"`
	PricePerHour float64   `json:"pricePerHour"`
	Amount       float64   `json:"amount"`
}
