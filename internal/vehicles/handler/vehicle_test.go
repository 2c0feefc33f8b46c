package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVehicles struct {
	added []*model.VehicleRequest
}

func (s *stubVehicles) Add(ctx context.Context, userID string, req *model.VehicleRequest) (*model.Vehicle, error) {
	s.added = append(s.added, req)
	return &model.Vehicle{ID: "v1", UserID: userID, Plate: req.Plate}, nil
}

func (s *stubVehicles) Get(ctx context.Context, userID, vehicleID string) (*model.Vehicle, error) {
	if userID != "u1" || vehicleID != "v1" {
		return nil, apperrors.NotFoundWithID("Vehicle", vehicleID)
	}
	return &model.Vehicle{ID: "v1", UserID: "u1"}, nil
}

func (s *stubVehicles) List(ctx context.Context, userID string) ([]*model.Vehicle, error) {
	return []*model.Vehicle{{ID: "v1", UserID: userID}}, nil
}

func (s *stubVehicles) Remove(ctx context.Context, userID, vehicleID string) error {
	return nil
}

type fixedUser string

func (u fixedUser) CurrentUserID(ctx context.Context) (string, error) {
	if u == "" {
		return "", apperrors.Unauthenticated("Authentication required")
	}
	return string(u), nil
}

func serve(user fixedUser, vehicles *stubVehicles, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewVehicleHandler(vehicles, user, logger.Discard()).RegisterRoutes(router)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate(t *testing.T) {
	vehicles := &stubVehicles{}

	rec := serve("u1", vehicles, http.MethodPost, "/api/v1/vehicles",
		`{"brand":"Chevrolet","name":"Cobalt","type":"Sedan","plate":"01A123BC"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Data model.Vehicle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v1", body.Data.ID)
	require.Len(t, vehicles.added, 1)
	assert.Equal(t, "Chevrolet", vehicles.added[0].Brand)
}

func TestCreate_RejectsUnknownFields(t *testing.T) {
	rec := serve("u1", &stubVehicles{}, http.MethodPost, "/api/v1/vehicles", `{"plate":"01A123BC","color":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByID_OtherUserIsNotFound(t *testing.T) {
	rec := serve("u2", &stubVehicles{}, http.MethodGet, "/api/v1/vehicles/v1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_RequiresIdentity(t *testing.T) {
	rec := serve("", &stubVehicles{}, http.MethodGet, "/api/v1/vehicles", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDelete(t *testing.T) {
	rec := serve("u1", &stubVehicles{}, http.MethodDelete, "/api/v1/vehicles/v1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
