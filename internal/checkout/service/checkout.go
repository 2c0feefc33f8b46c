package service

import (
	"context"
	"strings"
	"time"

	"smartparking/internal/availability"
	"smartparking/internal/checkout/validator"
	"smartparking/internal/pricing"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/events"
	"smartparking/pkg/model"
	"smartparking/pkg/sanitizer"
)

const BookingsTab = "bookings"

type SiteSource interface {
	GetSite(ctx context.Context, siteID string) (*model.Site, error)
}

type AvailabilitySource interface {
	Resolve(ctx context.Context, siteID string, start, end time.Time) ([]model.SlotAvailability, error)
}

// Vehicles resolves a vehicle for its owner. Another user's vehicle is NotFound.
type Vehicles interface {
	Get(ctx context.Context, userID, vehicleID string) (*model.Vehicle, error)
}

type Payments interface {
	RecordAndLink(ctx context.Context, userID string, amount float64, method string) (string, error)
	RecordExtension(ctx context.Context, userID, reservationID string, amount float64, method string) (string, error)
}

type Ledger interface {
	Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	Get(ctx context.Context, id string) (*model.Reservation, error)
	Cancel(ctx context.Context, id, reason string) (*model.Reservation, error)
	QuoteExtension(ctx context.Context, id string, newEnd time.Time) (*model.ExtensionQuote, error)
	Extend(ctx context.Context, quote *model.ExtensionQuote, paymentID string) (*model.Reservation, error)
}

// Checkout runs the pay-then-reserve sequence for a signed-in user. The two
// steps are not atomic; when the second fails the payment stays recorded and the
// caller gets PartialFailure with the orphaned payment ID.
type Checkout interface {
	Quote(ctx context.Context, siteID string, start, end time.Time) (*model.Quote, error)
	Book(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Reservation, error)
	Extend(ctx context.Context, userID, reservationID string, req *model.CheckoutExtendRequest) (*model.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID, reason string) (*model.Reservation, error)
	Get(ctx context.Context, userID, reservationID string) (*model.Reservation, error)
}

type checkout struct {
	sites        SiteSource
	availability AvailabilitySource
	vehicles     Vehicles
	pricing      pricing.Calculator
	payments     Payments
	ledger       Ledger
	publisher    events.Publisher
	validator    *validator.CheckoutValidator
	cfg          *config.Config
}

func NewCheckout(
	sites SiteSource,
	availability AvailabilitySource,
	vehicles Vehicles,
	calculator pricing.Calculator,
	payments Payments,
	ledger Ledger,
	publisher events.Publisher,
	validator *validator.CheckoutValidator,
	cfg *config.Config,
) Checkout {
	return &checkout{
		sites:        sites,
		availability: availability,
		vehicles:     vehicles,
		pricing:      calculator,
		payments:     payments,
		ledger:       ledger,
		publisher:    publisher,
		validator:    validator,
		cfg:          cfg,
	}
}

func (c *checkout) Quote(ctx context.Context, siteID string, start, end time.Time) (*model.Quote, error) {
	window, err := availability.NewWindow(model.StoredTime(start), model.StoredTime(end))
	if err != nil {
		return nil, err
	}
	site, err := c.sites.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	amount, err := c.pricing.Price(site.PricePerHour, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return &model.Quote{
		SiteID:       site.ID,
		StartTime:    window.Start,
		EndTime:      window.End,
		Units:        pricing.Units(window.Duration()),
		PricePerHour: site.PricePerHour,
		Amount:       amount,
	}, nil
}

func (c *checkout) Book(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request is required")
	}
	req.SlotNumber = sanitizer.SanitizeSlotNumber(req.SlotNumber)
	req.VehicleID = strings.TrimSpace(req.VehicleID)
	if err := c.validator.Validate(req); err != nil {
		c.cfg.Log.Warn("Booking validation failed", "user_id", userID, "error", err)
		return nil, apperrors.InvalidInput("Booking validation failed").WithDetails(map[string]any{"error": err.Error()})
	}
	if _, err := c.vehicles.Get(ctx, userID, req.VehicleID); err != nil {
		return nil, err
	}

	quote, err := c.Quote(ctx, req.SiteID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	// Refuse before charging when the slot is already known to be taken. The
	// ledger re-checks under the slot lock.
	if err := c.ensureBookable(ctx, req.SiteID, req.SlotNumber, quote.StartTime, quote.EndTime); err != nil {
		return nil, err
	}

	paymentID, err := c.payments.RecordAndLink(ctx, userID, quote.Amount, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	reservation, err := c.ledger.Create(ctx, &model.ReservationRequest{
		UserID:     userID,
		SiteID:     req.SiteID,
		SlotNumber: req.SlotNumber,
		VehicleID:  req.VehicleID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		PaymentID:  paymentID,
	})
	if err != nil {
		return nil, c.orphaned(ctx, "Payment recorded but the reservation was not created", paymentID, userID, "", quote.Amount, err)
	}
	c.refresh(ctx, userID)
	return reservation, nil
}

func (c *checkout) Extend(ctx context.Context, userID, reservationID string, req *model.CheckoutExtendRequest) (*model.Reservation, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Extension request is required")
	}
	if err := c.validator.ValidateExtend(req); err != nil {
		c.cfg.Log.Warn("Extension validation failed", "reservation_id", reservationID, "error", err)
		return nil, apperrors.InvalidInput("Extension validation failed").WithDetails(map[string]any{"error": err.Error()})
	}
	if _, err := c.Get(ctx, userID, reservationID); err != nil {
		return nil, err
	}

	quote, err := c.ledger.QuoteExtension(ctx, reservationID, req.NewEndTime)
	if err != nil {
		return nil, err
	}

	paymentID, err := c.payments.RecordExtension(ctx, userID, reservationID, quote.Amount, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	// The ledger applies exactly what was charged or nothing.
	reservation, err := c.ledger.Extend(ctx, quote, paymentID)
	if err != nil {
		return nil, c.orphaned(ctx, "Payment recorded but the reservation was not extended", paymentID, userID, reservationID, quote.Amount, err)
	}
	c.refresh(ctx, userID)
	return reservation, nil
}

func (c *checkout) Cancel(ctx context.Context, userID, reservationID, reason string) (*model.Reservation, error) {
	if _, err := c.Get(ctx, userID, reservationID); err != nil {
		return nil, err
	}
	reservation, err := c.ledger.Cancel(ctx, reservationID, sanitizer.SanitizeText(reason))
	if err != nil {
		return nil, err
	}
	c.refresh(ctx, userID)
	return reservation, nil
}

// Get returns the reservation only to its owner. Anyone else sees NotFound.
func (c *checkout) Get(ctx context.Context, userID, reservationID string) (*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	reservation, err := c.ledger.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, apperrors.NotFoundWithID("Reservation", reservationID)
	}
	return reservation, nil
}

func (c *checkout) ensureBookable(ctx context.Context, siteID, slotNumber string, start, end time.Time) error {
	result, err := c.availability.Resolve(ctx, siteID, start, end)
	if err != nil {
		return err
	}
	for _, a := range result {
		if a.Slot.SlotNumber != slotNumber {
			continue
		}
		if !a.IsFree {
			return apperrors.Conflict("Slot is not available for the requested window").WithDetails(map[string]any{
				"parkingSpotID": siteID,
				"slotNumber":    slotNumber,
			})
		}
		return nil
	}
	return apperrors.NotFoundWithID("Slot", slotNumber)
}

// refresh tells the user's clients to reload their bookings tab.
func (c *checkout) refresh(ctx context.Context, userID string) {
	c.publisher.Publish(ctx, events.New(events.TabRefresh, events.TabRefreshPayload{
		UserID: userID,
		Tab:    BookingsTab,
	}))
}

func (c *checkout) orphaned(ctx context.Context, message, paymentID, userID, reservationID string, amount float64, cause error) error {
	c.cfg.Log.Error("Payment left without reservation",
		"payment_id", paymentID,
		"user_id", userID,
		"reservation_id", reservationID,
		"amount", amount,
		"cause_code", apperrors.KindOf(cause),
		"error", cause,
	)
	c.publisher.Publish(ctx, events.New(events.PaymentOrphaned, events.PaymentOrphanedPayload{
		PaymentID:     paymentID,
		UserID:        userID,
		Amount:        amount,
		ReservationID: reservationID,
		Cause:         apperrors.KindOf(cause),
	}))
	return apperrors.PartialFailure(message, paymentID, cause)
}
