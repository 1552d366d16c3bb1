package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/ordering"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/payment"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/report"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/validation"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not configured", fmt.Errorf("get: %w", backend.ErrNotConfigured), http.StatusPreconditionRequired, "config_required"},
		{"unavailable", fmt.Errorf("%w: dial tcp", backend.ErrUnavailable), http.StatusServiceUnavailable, "service_unavailable"},
		{"api error", &backend.APIError{Method: "inputPemesanan", Message: "Stok habis"}, http.StatusBadGateway, "backend_error"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"already final", validation.ErrAlreadyFinal, http.StatusConflict, "already_final"},
		{"no data", report.ErrNoData, http.StatusUnprocessableEntity, "no_data"},
		{"proof too large", payment.ErrProofTooLarge, http.StatusRequestEntityTooLarge, "proof_too_large"},
		{"proof type", payment.ErrProofType, http.StatusBadRequest, "invalid_argument"},
		{"empty cart", ordering.ErrEmptyCart, http.StatusBadRequest, "invalid_argument"},
		{"fields", ordering.FieldErrors{"email": "email"}, http.StatusBadRequest, "validation_failed"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHandleError_BackendMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handleError(recorder, request, &backend.APIError{Method: "inputPemesanan", Message: "Stok habis"})

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "Stok habis", response.Error)
}

func TestHandleError_FieldErrors(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/", nil)

	handleError(recorder, request, ordering.FieldErrors{"email": "email", "telepon": "required"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, map[string]string{"email": "email", "telepon": "required"}, response.Fields)
	assert.Equal(t, "Mohon lengkapi semua field yang wajib diisi: email, telepon", response.Error)
}

func TestHandleError_InternalHidesDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handleError(recorder, request, errors.New("redis: connection refused"))

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, msgGeneric, response.Error)
}
