package handler

import (
	"net/http"

	"smartparking/internal/availability/service"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityResponse struct {
	SiteID    string                   `json:"parkingSpotID"`
	FreeCount int                      `json:"freeCount"`
	Slots     []model.SlotAvailability `json:"slots"`
}

type AvailabilityHandler struct {
	resolver service.Resolver
	log      *logger.Logger
}

func NewAvailabilityHandler(resolver service.Resolver, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		resolver: resolver,
		log:      log,
	}
}

// Resolve answers GET /api/v1/sites/:id/availability?start=...&end=...
func (h *AvailabilityHandler) Resolve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	start, end, err := httputil.ExtractWindow(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	siteID := ps.ByName("id")
	result, err := h.resolver.Resolve(r.Context(), siteID, start, end)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, AvailabilityResponse{
		SiteID:    siteID,
		FreeCount: service.FreeCount(result),
		Slots:     result,
	})
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sites/:id/availability", h.Resolve)
}
