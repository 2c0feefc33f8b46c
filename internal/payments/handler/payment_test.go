package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayments struct {
	byID map[string]*model.Payment
	list []*model.Payment
}

func (s *stubPayments) Get(ctx context.Context, id string) (*model.Payment, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFoundWithID("Payment", id)
}

func (s *stubPayments) ListByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	return s.list, nil
}

type fixedUser string

func (u fixedUser) CurrentUserID(ctx context.Context) (string, error) {
	if u == "" {
		return "", apperrors.Unauthenticated("Authentication required")
	}
	return string(u), nil
}

func serve(user fixedUser, payments *stubPayments, target string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewPaymentHandler(payments, user, logger.Discard()).RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestList_AppliesLimit(t *testing.T) {
	payments := &stubPayments{}
	for i := 0; i < 15; i++ {
		payments.list = append(payments.list, &model.Payment{ID: fmt.Sprintf("p%d", i), UserID: "u1"})
	}

	rec := serve("u1", payments, "/api/v1/payments?limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data  []model.Payment `json:"data"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 5)
	assert.Equal(t, 15, body.Count)
}

func TestList_DefaultLimit(t *testing.T) {
	payments := &stubPayments{}
	for i := 0; i < 12; i++ {
		payments.list = append(payments.list, &model.Payment{ID: fmt.Sprintf("p%d", i), UserID: "u1"})
	}

	rec := serve("u1", payments, "/api/v1/payments")

	var body struct {
		Data []model.Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 10)
}

func TestList_RejectsBadLimit(t *testing.T) {
	rec := serve("u1", &stubPayments{}, "/api/v1/payments?limit=ten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_RequiresIdentity(t *testing.T) {
	rec := serve("", &stubPayments{}, "/api/v1/payments")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetByID_HidesOtherUsersPayments(t *testing.T) {
	payments := &stubPayments{byID: map[string]*model.Payment{
		"p1": {ID: "p1", UserID: "u1", Amount: 5000},
	}}

	assert.Equal(t, http.StatusOK, serve("u1", payments, "/api/v1/payments/p1").Code)
	assert.Equal(t, http.StatusNotFound, serve("u2", payments, "/api/v1/payments/p1").Code)
	assert.Equal(t, http.StatusNotFound, serve("u1", payments, "/api/v1/payments/missing").Code)
}
