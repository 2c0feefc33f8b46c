package handler

import (
	"net/http"

	"smartparking/internal/checkout/service"
	"smartparking/internal/identity"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CheckoutHandler struct {
	service  service.Checkout
	identity identity.Provider
	log      *logger.Logger
}

func NewCheckoutHandler(service service.Checkout, identity identity.Provider, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		identity: identity,
		log:      log,
	}
}

func (h *CheckoutHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.CheckoutRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.service.Book(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, reservation)
}

// Quote answers GET /api/v1/quote?parkingSpotID=...&start=...&end=...
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, end, err := httputil.ExtractWindow(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	quote, err := h.service.Quote(r.Context(), r.URL.Query().Get("parkingSpotID"), start, end)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, quote)
}

func (h *CheckoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Book)
	router.GET("/api/v1/quote", h.Quote)
}
