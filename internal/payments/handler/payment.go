package handler

import (
	"context"
	"net/http"
	"strconv"

	"smartparking/internal/identity"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentReader interface {
	Get(ctx context.Context, id string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Payment, error)
}

type PaymentHandler struct {
	payments PaymentReader
	identity identity.Provider
	log      *logger.Logger
}

func NewPaymentHandler(payments PaymentReader, identity identity.Provider, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		identity: identity,
		log:      log,
	}
}

// List returns the caller's payments, newest first, capped by ?limit.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("limit must be an integer"))
			return
		}
	}
	limit = config.NormalizePaginationLimit(limit)

	payments, err := h.payments.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	total := len(payments)
	if len(payments) > limit {
		payments = payments[:limit]
	}
	httputil.WriteList(w, payments, total)
}

func (h *PaymentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	id := ps.ByName("id")
	payment, err := h.payments.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if payment.UserID != userID {
		httputil.WriteError(w, apperrors.NotFoundWithID("Payment", id))
		return
	}
	httputil.WriteSuccess(w, payment)
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/payments", h.List)
	router.GET("/api/v1/payments/:id", h.GetByID)
}
