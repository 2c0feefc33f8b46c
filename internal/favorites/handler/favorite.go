package handler

import (
	"net/http"

	"smartparking/internal/favorites/service"
	"smartparking/internal/identity"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type FavoriteHandler struct {
	service  service.FavoriteService
	identity identity.Provider
	log      *logger.Logger
}

func NewFavoriteHandler(service service.FavoriteService, identity identity.Provider, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service:  service,
		identity: identity,
		log:      log,
	}
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	favorites, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, favorites, len(favorites))
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Add(r.Context(), userID, ps.ByName("siteID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := h.identity.CurrentUserID(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), userID, ps.ByName("siteID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *FavoriteHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/favorites", h.List)
	router.PUT("/api/v1/favorites/:siteID", h.Add)
	router.DELETE("/api/v1/favorites/:siteID", h.Remove)
}
