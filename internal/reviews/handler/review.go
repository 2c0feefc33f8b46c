package handler

import (
	"net/http"

	"smartparking/internal/identity"
	"smartparking/internal/reviews/service"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReviewHandler struct {
	service  service.ReviewService
	identity identity.Provider
	log      *logger.Logger
}

func NewReviewHandler(service service.ReviewService, identity identity.Provider, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		identity: identity,
		log:      log,
	}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reviews, err := h.service.ListBySite(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, reviews, len(reviews))
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.ReviewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	review, err := h.service.Add(r.Context(), userID, ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, review)
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sites/:id/reviews", h.List)
	router.POST("/api/v1/sites/:id/reviews", h.Create)
}
