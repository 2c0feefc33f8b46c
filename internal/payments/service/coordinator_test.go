package service

import (
	"context"
	"errors"
	"testing"

	paymenterrors "smartparking/internal/payments/errors"
	"smartparking/internal/payments/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPaymentRepository struct {
	createFunc     func(ctx context.Context, payment *model.Payment) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Payment, error)
	findByUserFunc func(ctx context.Context, userID string) ([]*model.Payment, error)
	created        []*model.Payment
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, payment); err != nil {
			return err
		}
	}
	m.created = append(m.created, payment)
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, paymenterrors.ErrPaymentNotFound
}

func (m *mockPaymentRepository) FindByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) SetStatus(ctx context.Context, id, status string) error {
	return nil
}

func newCoordinator(repo *mockPaymentRepository) Coordinator {
	log := logger.Discard()
	return NewCoordinator(repo, validator.NewPaymentValidator(log), &config.Config{Log: log})
}

func TestRecordAndLink(t *testing.T) {
	repo := &mockPaymentRepository{}

	id, err := newCoordinator(repo).RecordAndLink(context.Background(), "user-1", 7500, model.PaymentMethodCash)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	p := repo.created[0]
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, 7500.0, p.Amount)
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
	assert.Equal(t, model.PaymentKindBooking, p.Kind)
	assert.Empty(t, p.ReservationID)
	assert.NotEmpty(t, p.TransactionID)
	assert.NotEqual(t, p.ID, p.TransactionID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestRecordExtension_LinksReservation(t *testing.T) {
	repo := &mockPaymentRepository{}

	_, err := newCoordinator(repo).RecordExtension(context.Background(), "user-1", "res-1", 5000, model.PaymentMethodWallet)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "res-1", repo.created[0].ReservationID)
	assert.Equal(t, model.PaymentKindExtension, repo.created[0].Kind)
}

func TestRecordAndLink_InvalidInputNeverWrites(t *testing.T) {
	repo := &mockPaymentRepository{}
	c := newCoordinator(repo)

	_, err := c.RecordAndLink(context.Background(), "user-1", 0, model.PaymentMethodCash)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))

	_, err = c.RecordAndLink(context.Background(), "user-1", 100, "barter")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))

	assert.Empty(t, repo.created)
}

func TestRecordAndLink_StorageFailure(t *testing.T) {
	repo := &mockPaymentRepository{
		createFunc: func(ctx context.Context, payment *model.Payment) error {
			return errors.New("connection reset")
		},
	}

	_, err := newCoordinator(repo).RecordAndLink(context.Background(), "user-1", 100, model.PaymentMethodCash)
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.KindOf(err))

	repo.createFunc = func(ctx context.Context, payment *model.Payment) error {
		return context.DeadlineExceeded
	}
	_, err = newCoordinator(repo).RecordAndLink(context.Background(), "user-1", 100, model.PaymentMethodCash)
	assert.Equal(t, apperrors.CodeTimeout, apperrors.KindOf(err))
}

func TestGet(t *testing.T) {
	repo := &mockPaymentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Payment, error) {
			if id == "p1" {
				return &model.Payment{ID: "p1"}, nil
			}
			return nil, paymenterrors.ErrPaymentNotFound
		},
	}
	c := newCoordinator(repo)

	p, err := c.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = c.Get(context.Background(), "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(err))

	_, err = c.Get(context.Background(), "")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	payments, err := newCoordinator(&mockPaymentRepository{}).ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}
