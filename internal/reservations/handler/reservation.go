package handler

import (
	"context"
	"net/http"

	"smartparking/internal/identity"
	"smartparking/internal/reservations/validator"
	apperrors "smartparking/pkg/errors"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Lister interface {
	ListByUser(ctx context.Context, userID string, status model.ReservationStatus) ([]*model.Reservation, error)
}

// OwnerActions are the reservation operations that check ownership and, for
// extension, take payment.
type OwnerActions interface {
	Get(ctx context.Context, userID, reservationID string) (*model.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID, reason string) (*model.Reservation, error)
	Extend(ctx context.Context, userID, reservationID string, req *model.CheckoutExtendRequest) (*model.Reservation, error)
}

type ReservationHandler struct {
	lister    Lister
	owner     OwnerActions
	identity  identity.Provider
	validator *validator.ReservationValidator
	log       *logger.Logger
}

func NewReservationHandler(lister Lister, owner OwnerActions, identity identity.Provider, validator *validator.ReservationValidator, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		lister:    lister,
		owner:     owner,
		identity:  identity,
		validator: validator,
		log:       log,
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status := model.ReservationStatus(r.URL.Query().Get("status"))
	if err := h.validator.ValidateStatus(status); err != nil {
		httputil.WriteError(w, invalidQuery(err))
		return
	}

	reservations, err := h.lister.ListByUser(r.Context(), userID, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, reservations, len(reservations))
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.owner.Get(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.CancelRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if err := h.validator.ValidateCancel(&req); err != nil {
		httputil.WriteError(w, invalidQuery(err))
		return
	}

	reservation, err := h.owner.Cancel(r.Context(), userID, ps.ByName("id"), req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Extend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.CheckoutExtendRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.owner.Extend(r.Context(), userID, ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/:id", h.GetByID)
	router.POST("/api/v1/reservations/:id/cancel", h.Cancel)
	router.POST("/api/v1/reservations/:id/extend", h.Extend)
}

func invalidQuery(err error) error {
	return apperrors.InvalidInput("Request validation failed").WithDetails(map[string]any{"error": err.Error()})
}
