package handler

import (
	"net/http"

	"smartparking/internal/identity"
	"smartparking/internal/vehicles/service"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type VehicleHandler struct {
	service  service.VehicleService
	identity identity.Provider
	log      *logger.Logger
}

func NewVehicleHandler(service service.VehicleService, identity identity.Provider, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		service:  service,
		identity: identity,
		log:      log,
	}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicles, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, vehicles, len(vehicles))
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.VehicleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicle, err := h.service.Add(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, vehicle)
}

func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicle, err := h.service.Get(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), userID, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/vehicles", h.List)
	router.POST("/api/v1/vehicles", h.Create)
	router.GET("/api/v1/vehicles/:id", h.GetByID)
	router.DELETE("/api/v1/vehicles/:id", h.Delete)
}
