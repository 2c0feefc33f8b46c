package service

import (
	"context"
	"errors"
	"time"

	paymenterrors "smartparking/internal/payments/errors"
	"smartparking/internal/payments/repository"
	"smartparking/internal/payments/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/model"

	"github.com/google/uuid"
)

// Coordinator records payments. A recorded payment is never rolled back; linking
// it to a reservation is the caller's second, separate step.
type Coordinator interface {
	RecordAndLink(ctx context.Context, userID string, amount float64, method string) (string, error)
	RecordExtension(ctx context.Context, userID, reservationID string, amount float64, method string) (string, error)
	Get(ctx context.Context, id string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Payment, error)
}

type coordinator struct {
	repo      repository.PaymentRepository
	validator *validator.PaymentValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewCoordinator(repo repository.PaymentRepository, validator *validator.PaymentValidator, cfg *config.Config) Coordinator {
	return &coordinator{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (c *coordinator) RecordAndLink(ctx context.Context, userID string, amount float64, method string) (string, error) {
	return c.record(ctx, &model.PaymentRequest{
		UserID:        userID,
		Amount:        amount,
		PaymentMethod: method,
		Kind:          model.PaymentKindBooking,
	})
}

func (c *coordinator) RecordExtension(ctx context.Context, userID, reservationID string, amount float64, method string) (string, error) {
	return c.record(ctx, &model.PaymentRequest{
		UserID:        userID,
		ReservationID: reservationID,
		Amount:        amount,
		PaymentMethod: method,
		Kind:          model.PaymentKindExtension,
	})
}

func (c *coordinator) record(ctx context.Context, req *model.PaymentRequest) (string, error) {
	if err := c.validator.Validate(req); err != nil {
		c.cfg.Log.Warn("Payment validation failed", "user_id", req.UserID, "error", err)
		return "", apperrors.InvalidInput("Payment validation failed").WithDetails(map[string]any{"error": err.Error()})
	}

	payment := &model.Payment{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		ReservationID: req.ReservationID,
		Amount:        req.Amount,
		Status:        model.PaymentStatusCompleted,
		PaymentMethod: req.PaymentMethod,
		Kind:          req.Kind,
		TransactionID: uuid.NewString(),
		CreatedAt:     c.now().Truncate(time.Millisecond),
	}

	if err := c.repo.Create(ctx, payment); err != nil {
		c.cfg.Log.Error("Failed to record payment",
			"user_id", req.UserID,
			"type", req.Kind,
			"error", err,
		)
		return "", apperrors.FromStorage(err, "Failed to record payment")
	}

	c.cfg.Log.Info("Payment recorded",
		"payment_id", payment.ID,
		"user_id", payment.UserID,
		"reservation_id", payment.ReservationID,
		"amount", payment.Amount,
		"type", payment.Kind,
	)
	return payment.ID, nil
}

func (c *coordinator) Get(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Payment ID is required")
	}
	payment, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymenterrors.ErrPaymentNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", id)
		}
		c.cfg.Log.Error("Failed to get payment", "payment_id", id, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to get payment")
	}
	return payment, nil
}

func (c *coordinator) ListByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	payments, err := c.repo.FindByUser(ctx, userID)
	if err != nil {
		c.cfg.Log.Error("Failed to list payments", "user_id", userID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to list payments")
	}
	if payments == nil {
		payments = []*model.Payment{}
	}
	return payments, nil
}
