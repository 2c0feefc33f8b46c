package handler

import (
	"net/http"

	"smartparking/internal/catalog/service"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) ListSites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sites, err := h.service.ListSites(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, sites, len(sites))
}

func (h *CatalogHandler) GetSite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	site, err := h.service.GetSite(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, site)
}

func (h *CatalogHandler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	floors, err := h.service.ListSlots(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, floors, len(floors))
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sites", h.ListSites)
	router.GET("/api/v1/sites/:id", h.GetSite)
	router.GET("/api/v1/sites/:id/slots", h.ListSlots)
}
