package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"smartparking/internal/availability"
	catalogservice "smartparking/internal/catalog/service"
	"smartparking/internal/pricing"
	reservationerrors "smartparking/internal/reservations/errors"
	"smartparking/internal/reservations/repository"
	"smartparking/internal/reservations/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/events"
	"smartparking/pkg/locks"
	"smartparking/pkg/model"

	"github.com/google/uuid"
)

// Ledger owns the reservation lifecycle. Create and Extend for one slot are
// serialized through the slot lock and re-check overlap inside it.
type Ledger interface {
	Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	Get(ctx context.Context, id string) (*model.Reservation, error)
	Cancel(ctx context.Context, id, reason string) (*model.Reservation, error)
	QuoteExtension(ctx context.Context, id string, newEnd time.Time) (*model.ExtensionQuote, error)
	Extend(ctx context.Context, quote *model.ExtensionQuote, paymentID string) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID string, status model.ReservationStatus) ([]*model.Reservation, error)
	ListActiveBySite(ctx context.Context, siteID string) ([]*model.Reservation, error)
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

type ledger struct {
	repo      repository.ReservationRepository
	catalog   catalogservice.CatalogService
	pricing   pricing.Calculator
	locker    locks.Locker
	publisher events.Publisher
	validator *validator.ReservationValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewLedger(
	repo repository.ReservationRepository,
	catalog catalogservice.CatalogService,
	calculator pricing.Calculator,
	locker locks.Locker,
	publisher events.Publisher,
	validator *validator.ReservationValidator,
	cfg *config.Config,
) Ledger {
	return &ledger{
		repo:      repo,
		catalog:   catalog,
		pricing:   calculator,
		locker:    locker,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (l *ledger) Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	if req == nil {
		return nil, apperrors.InvalidInput("Reservation request is required")
	}
	if err := l.validator.Validate(req); err != nil {
		l.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, invalidInput("Reservation validation failed", err)
	}
	window, err := availability.NewWindow(storeTime(req.StartTime), storeTime(req.EndTime))
	if err != nil {
		return nil, err
	}

	site, err := l.catalog.GetSite(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	if _, err := l.catalog.GetSlot(ctx, req.SiteID, req.SlotNumber); err != nil {
		return nil, err
	}
	price, err := l.pricing.Price(site.PricePerHour, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		SiteID:     req.SiteID,
		SlotNumber: req.SlotNumber,
		VehicleID:  req.VehicleID,
		StartTime:  window.Start,
		EndTime:    window.End,
		Status:     model.StatusActive,
		TotalPrice: price,
		PaymentID:  req.PaymentID,
	}

	err = locks.WithLock(ctx, l.locker, locks.SlotKey(req.SiteID, req.SlotNumber), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, l.cfg.LockTTL)
		defer cancel()

		if err := deadlineErr(ctx); err != nil {
			return err
		}
		if err := l.ensureFree(ctx, reservation.SiteID, reservation.SlotNumber, window, ""); err != nil {
			return err
		}
		reservation.CreatedAt = storeTime(l.now())
		if err := l.repo.Create(ctx, reservation); err != nil {
			return apperrors.FromStorage(err, "Failed to create reservation")
		}
		return nil
	})
	if err != nil {
		l.logFailure("Failed to create reservation", err,
			"site_id", req.SiteID,
			"slot_number", req.SlotNumber,
		)
		return nil, err
	}

	l.cfg.Log.Info("Reservation created",
		"reservation_id", reservation.ID,
		"site_id", reservation.SiteID,
		"slot_number", reservation.SlotNumber,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
		"total_price", reservation.TotalPrice,
	)
	l.publish(ctx, events.ReservationCreated, reservation, "")
	return reservation, nil
}

func (l *ledger) Get(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	return l.find(ctx, id)
}

func (l *ledger) Cancel(ctx context.Context, id, reason string) (*model.Reservation, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	if err := l.validator.ValidateCancel(&model.CancelRequest{Reason: reason}); err != nil {
		return nil, invalidInput("Cancellation validation failed", err)
	}

	reservation, err := l.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != model.StatusActive {
		return nil, apperrors.InvalidTransition(string(reservation.Status), string(model.StatusCancelled))
	}

	at := storeTime(l.now())
	if err := l.repo.Cancel(ctx, id, reason, at); err != nil {
		if errors.Is(err, reservationerrors.ErrStateChanged) {
			return nil, l.transitionLost(ctx, id, model.StatusCancelled)
		}
		l.cfg.Log.Error("Failed to cancel reservation", "reservation_id", id, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to cancel reservation")
	}

	reservation.Status = model.StatusCancelled
	reservation.CancellationReason = reason
	reservation.CancelledAt = &at

	l.cfg.Log.Info("Reservation cancelled", "reservation_id", id, "site_id", reservation.SiteID, "slot_number", reservation.SlotNumber)
	l.publish(ctx, events.ReservationCancelled, reservation, reason)
	return reservation, nil
}

// QuoteExtension validates an extension against the current state and returns
// the incremental price without writing anything.
func (l *ledger) QuoteExtension(ctx context.Context, id string, newEnd time.Time) (*model.ExtensionQuote, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	reservation, delta, added, err := l.prepareExtension(ctx, id, newEnd)
	if err != nil {
		return nil, err
	}
	return &model.ExtensionQuote{
		ReservationID: reservation.ID,
		CurrentEnd:    reservation.EndTime,
		NewEnd:        added.End,
		Amount:        delta,
	}, nil
}

// Extend applies a quote. It fails with Conflict when the reservation no longer
// ends at the quoted time or the added span no longer costs the quoted amount.
func (l *ledger) Extend(ctx context.Context, quote *model.ExtensionQuote, paymentID string) (*model.Reservation, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	if quote == nil {
		return nil, apperrors.InvalidInput("Extension quote is required")
	}
	id := quote.ReservationID
	reservation, delta, added, err := l.prepareExtension(ctx, id, quote.NewEnd)
	if err != nil {
		return nil, err
	}
	if !reservation.EndTime.Equal(storeTime(quote.CurrentEnd)) || delta != quote.Amount {
		l.cfg.Log.Warn("Extension quote is stale",
			"reservation_id", id,
			"quoted_end_time", quote.CurrentEnd,
			"current_end_time", reservation.EndTime,
			"quoted_amount", quote.Amount,
			"current_amount", delta,
		)
		return nil, staleQuote(quote, reservation.EndTime, delta)
	}

	at := storeTime(l.now())
	err = locks.WithLock(ctx, l.locker, locks.SlotKey(reservation.SiteID, reservation.SlotNumber), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, l.cfg.LockTTL)
		defer cancel()

		if err := deadlineErr(ctx); err != nil {
			return err
		}
		if err := l.ensureFree(ctx, reservation.SiteID, reservation.SlotNumber, added, reservation.ID); err != nil {
			return err
		}
		err := l.repo.Extend(ctx, reservation.ID, reservation.EndTime, added.End, delta, paymentID, at)
		if errors.Is(err, reservationerrors.ErrStateChanged) {
			return l.extensionLost(ctx, quote)
		}
		if err != nil {
			return apperrors.FromStorage(err, "Failed to extend reservation")
		}
		return nil
	})
	if err != nil {
		l.logFailure("Failed to extend reservation", err, "reservation_id", id)
		return nil, err
	}

	reservation.EndTime = added.End
	reservation.TotalPrice += delta
	reservation.LastExtendedAt = &at
	if paymentID != "" {
		reservation.ExtensionPaymentIDs = append(reservation.ExtensionPaymentIDs, paymentID)
	}

	l.cfg.Log.Info("Reservation extended",
		"reservation_id", reservation.ID,
		"new_end_time", reservation.EndTime,
		"price_delta", delta,
		"total_price", reservation.TotalPrice,
	)
	l.publish(ctx, events.ReservationExtended, reservation, "")
	return reservation, nil
}

func (l *ledger) prepareExtension(ctx context.Context, id string, newEnd time.Time) (*model.Reservation, float64, availability.Window, error) {
	if err := l.validator.ValidateExtend(&model.ExtendRequest{NewEndTime: newEnd}); err != nil {
		return nil, 0, availability.Window{}, invalidInput("Extension validation failed", err)
	}

	reservation, err := l.find(ctx, id)
	if err != nil {
		return nil, 0, availability.Window{}, err
	}
	if reservation.Status != model.StatusActive {
		return nil, 0, availability.Window{}, apperrors.InvalidTransition(string(reservation.Status), "extended")
	}

	newEnd = storeTime(newEnd)
	if !newEnd.After(reservation.EndTime) {
		e := apperrors.InvalidTransition(string(reservation.Status), "extended")
		e.Message = fmt.Sprintf("new end time must be after the current end time %s", reservation.EndTime.Format(time.RFC3339))
		return nil, 0, availability.Window{}, e
	}
	added := availability.Window{Start: reservation.EndTime, End: newEnd}

	site, err := l.catalog.GetSite(ctx, reservation.SiteID)
	if err != nil {
		return nil, 0, availability.Window{}, err
	}
	delta, err := l.pricing.ExtensionPrice(site.PricePerHour, added.Duration())
	if err != nil {
		return nil, 0, availability.Window{}, err
	}
	return reservation, delta, added, nil
}

func (l *ledger) ListByUser(ctx context.Context, userID string, status model.ReservationStatus) ([]*model.Reservation, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := l.validator.ValidateStatus(status); err != nil {
		return nil, invalidInput("Invalid status filter", err)
	}

	reservations, err := l.repo.FindByUser(ctx, userID, status)
	if err != nil {
		l.cfg.Log.Error("Failed to list reservations", "user_id", userID, "status", status, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve reservations")
	}
	if reservations == nil {
		reservations = []*model.Reservation{}
	}
	sortByStartDesc(reservations)
	return reservations, nil
}

func (l *ledger) ListActiveBySite(ctx context.Context, siteID string) ([]*model.Reservation, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	if siteID == "" {
		return nil, apperrors.InvalidInput("Site ID cannot be empty")
	}

	reservations, err := l.repo.FindActiveBySite(ctx, siteID)
	if err != nil {
		l.cfg.Log.Error("Failed to list active reservations", "site_id", siteID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve active reservations")
	}
	if reservations == nil {
		reservations = []*model.Reservation{}
	}
	return reservations, nil
}

// CompleteExpired moves every active reservation whose window has ended to
// Completed. Reservations cancelled in the meantime are skipped.
func (l *ledger) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := l.withDeadline(ctx)
	defer cancel()

	expired, err := l.repo.FindActiveEndedBy(ctx, now)
	if err != nil {
		l.cfg.Log.Error("Failed to find expired reservations", "error", err)
		return 0, apperrors.FromStorage(err, "Failed to find expired reservations")
	}

	completed := 0
	at := storeTime(l.now())
	for _, r := range expired {
		err := l.repo.Complete(ctx, r.ID, at)
		if errors.Is(err, reservationerrors.ErrStateChanged) {
			continue
		}
		if err != nil {
			l.cfg.Log.Error("Failed to complete reservation", "reservation_id", r.ID, "error", err)
			return completed, apperrors.FromStorage(err, "Failed to complete reservation")
		}
		r.Status = model.StatusCompleted
		r.CompletedAt = &at
		completed++
		l.publish(ctx, events.ReservationCompleted, r, "")
	}

	if completed > 0 {
		l.cfg.Log.Info("Completed expired reservations", "count", completed)
	}
	return completed, nil
}

// --- Helpers ---

func (l *ledger) find(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := l.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		l.cfg.Log.Error("Failed to get reservation", "reservation_id", id, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve reservation")
	}
	return reservation, nil
}

// ensureFree must run while holding the slot lock.
func (l *ledger) ensureFree(ctx context.Context, siteID, slotNumber string, w availability.Window, exceptID string) error {
	existing, err := l.repo.FindActiveOverlapping(ctx, siteID, slotNumber, w.Start, w.End)
	if err != nil {
		return apperrors.FromStorage(err, "Failed to check slot availability")
	}
	if c := availability.FirstConflict(existing, slotNumber, w, exceptID); c != nil {
		return apperrors.Conflict(fmt.Sprintf(
			"Slot %s is already reserved from %s to %s",
			slotNumber,
			c.StartTime.Format(time.RFC3339),
			c.EndTime.Format(time.RFC3339),
		)).WithDetails(map[string]any{
			"site_id":     siteID,
			"slot_number": slotNumber,
		})
	}
	return nil
}

// transitionLost re-reads a reservation whose conditional write matched nothing
// and reports why.
func (l *ledger) transitionLost(ctx context.Context, id string, to model.ReservationStatus) error {
	current, err := l.find(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != model.StatusActive {
		return apperrors.InvalidTransition(string(current.Status), string(to))
	}
	return apperrors.Conflict("Reservation was modified concurrently, retry with fresh data")
}

// extensionLost reports a conditional extension write that matched nothing.
func (l *ledger) extensionLost(ctx context.Context, quote *model.ExtensionQuote) error {
	current, err := l.find(ctx, quote.ReservationID)
	if err != nil {
		return err
	}
	if current.Status != model.StatusActive {
		return apperrors.InvalidTransition(string(current.Status), "extended")
	}
	return staleQuote(quote, current.EndTime, quote.Amount)
}

func staleQuote(quote *model.ExtensionQuote, currentEnd time.Time, currentAmount float64) error {
	return apperrors.Conflict("Reservation changed since the extension was quoted, request a new quote").WithDetails(map[string]any{
		"quoted_end_time":  quote.CurrentEnd.Format(time.RFC3339Nano),
		"current_end_time": currentEnd.Format(time.RFC3339Nano),
		"quoted_amount":    quote.Amount,
		"current_amount":   currentAmount,
	})
}

func (l *ledger) publish(ctx context.Context, kind events.Kind, r *model.Reservation, reason string) {
	l.publisher.Publish(ctx, events.New(kind, events.ReservationPayload{
		ReservationID: r.ID,
		UserID:        r.UserID,
		SiteID:        r.SiteID,
		SlotNumber:    r.SlotNumber,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		TotalPrice:    r.TotalPrice,
		Reason:        reason,
	}))
	l.publisher.Publish(ctx, events.New(events.AvailabilityChanged, events.AvailabilityPayload{
		SiteID:     r.SiteID,
		SlotNumber: r.SlotNumber,
	}))
}

func (l *ledger) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	switch apperrors.KindOf(err) {
	case apperrors.CodeConflict, apperrors.CodeInvalidTransition, apperrors.CodeNotFound, apperrors.CodeInvalidInput:
		l.cfg.Log.Warn(msg, args...)
	default:
		l.cfg.Log.Error(msg, args...)
	}
}

// withDeadline bounds calls that arrive without a deadline so no ledger call can
// hang on the store.
func (l *ledger) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || l.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.cfg.RequestTimeout)
}

func deadlineErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.FromContext(err, "Reservation request deadline exceeded")
	}
	return nil
}

func invalidInput(message string, err error) *apperrors.AppError {
	return apperrors.InvalidInput(message).WithDetails(map[string]any{"error": err.Error()})
}

// storeTime matches the millisecond UTC precision the document store keeps, so
// conditional writes on a time field compare equal to what was read back.
func storeTime(t time.Time) time.Time {
	return model.StoredTime(t)
}

func sortByStartDesc(reservations []*model.Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].StartTime.After(reservations[j].StartTime)
	})
}
