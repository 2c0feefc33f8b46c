package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	siteID     string
	start, end time.Time
}

func (s *stubResolver) Resolve(ctx context.Context, siteID string, start, end time.Time) ([]model.SlotAvailability, error) {
	s.siteID, s.start, s.end = siteID, start, end
	return []model.SlotAvailability{
		{Slot: model.Slot{SlotNumber: "A1"}, IsFree: false},
		{Slot: model.Slot{SlotNumber: "A2"}, IsFree: true},
	}, nil
}

func serve(t *testing.T, resolver *stubResolver, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := httprouter.New()
	NewAvailabilityHandler(resolver, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestResolve_ReturnsFreeCount(t *testing.T) {
	resolver := &stubResolver{}
	rec := serve(t, resolver, "/api/v1/sites/TATU/availability?start=2024-05-01T14:00:00Z&end=2024-05-01T15:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TATU", body.Data.SiteID)
	assert.Equal(t, 1, body.Data.FreeCount)
	assert.Len(t, body.Data.Slots, 2)

	assert.Equal(t, "TATU", resolver.siteID)
	assert.Equal(t, time.Hour, resolver.end.Sub(resolver.start))
}

func TestResolve_RejectsMissingWindow(t *testing.T) {
	rec := serve(t, &stubResolver{}, "/api/v1/sites/TATU/availability?start=2024-05-01T14:00:00Z")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}
