package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "smartparking/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_UsesAppErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", apperrors.InvalidInput("bad"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"unauthenticated", apperrors.Unauthenticated("who"), http.StatusUnauthorized, apperrors.CodeUnauthenticated},
		{"not found", apperrors.NotFound("Site"), http.StatusNotFound, apperrors.CodeNotFound},
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict, apperrors.CodeConflict},
		{"invalid transition", apperrors.InvalidTransition("cancelled", "cancelled"), http.StatusConflict, apperrors.CodeInvalidTransition},
		{"partial failure", apperrors.PartialFailure("half", "pay-1", nil), http.StatusBadGateway, apperrors.CodePartialFailure},
		{"timeout", apperrors.Timeout("slow"), http.StatusGatewayTimeout, apperrors.CodeTimeout},
		{"unavailable", apperrors.Unavailable("storage"), http.StatusServiceUnavailable, apperrors.CodeUnavailable},
		{"plain error", errors.New("secret detail"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, body.Error, "secret detail")
		})
	}
}

func TestWriteError_PartialFailureDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.PartialFailure("payment recorded", "pay-9", apperrors.Conflict("taken")))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pay-9", body.Details[apperrors.DetailOrphanPaymentID])
}

func TestExtractWindow(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?start=2024-05-01T14:00:00Z&end=2024-05-01T15:30:00Z", nil)
	start, end, err := ExtractWindow(r)
	require.NoError(t, err)
	assert.Equal(t, 90.0, end.Sub(start).Minutes())

	r = httptest.NewRequest(http.MethodGet, "/?start=yesterday&end=2024-05-01T15:30:00Z", nil)
	_, _, err = ExtractWindow(r)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	r = httptest.NewRequest(http.MethodGet, "/?start=2024-05-01T14:00:00Z", nil)
	_, _, err = ExtractWindow(r)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Reason string `json:"reason"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"plans changed"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "plans changed", dst.Reason)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"x","extra":1}`))
	assert.True(t, apperrors.Is(DecodeJSON(r, &dst), apperrors.CodeInvalidInput))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, apperrors.Is(DecodeJSON(r, &dst), apperrors.CodeInvalidInput))
}
