package model

import "time"

const (
	PaymentStatusCompleted = "completed"

	PaymentKindBooking   = "booking"
	PaymentKindExtension = "extension"
)

// Payment is recorded before the reservation it backs and is never mutated
// except for its status.
type Payment struct {
	ID            string    `json:"id" bson:"_id"`
	UserID        string    `json:"userID" bson:"userID"`
	ReservationID string    `json:"reservationID,omitempty" bson:"reservationID,omitempty"`
	Amount        float64   `json:"amount" bson:"amount"`
	Status        string    `json:"status" bson:"status"`
	PaymentMethod string    `json:"paymentMethod" bson:"paymentMethod"`
	Kind          string    `json:"type" bson:"type"`
	TransactionID string    `json:"transactionID,omitempty" bson:"transactionID,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// Payment methods accepted at checkout.
const (
	PaymentMethodWallet     = "wallet"
	PaymentMethodCash       = "cash"
	PaymentMethodCreditCard = "creditCard"
	PaymentMethodPayPal     = "paypal"
	PaymentMethodApplePay   = "applePay"
	PaymentMethodGooglePay  = "googlePay"
)

type PaymentRequest struct {
	UserID        string  `json:"userID" validate:"required,max=128"`
	ReservationID string  `json:"reservationID,omitempty" validate:"omitempty,max=64"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,payment_method"`
	Kind          string  `json:"type" validate:"required,oneof=booking extension"`
}
