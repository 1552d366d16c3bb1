package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/ordering"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/payment"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/report"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/session"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/validation"
)

const (
	msgGeneric     = "Terjadi kesalahan dalam aplikasi. Silakan refresh halaman."
	msgUnavailable = "Gagal terhubung ke server. Periksa koneksi atau URL API."
	msgBackend     = "Terjadi kesalahan pada server"
	msgNoAccess    = "Anda tidak memiliki akses ke halaman ini"
	msgSession     = "Sesi Anda telah berakhir. Silakan login kembali."
)

type ErrorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Details  string            `json:"details,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondFile sends a download with the given file name.
func respondFile(w http.ResponseWriter, name, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("failed to write file response", "file", name, "err", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}

var errInvalidBody = errors.New("invalid JSON body")

// classify maps an error to its HTTP status, error code and user message.
func classify(err error) (int, string, string) {
	var (
		apiErr    *backend.APIError
		fieldErrs ordering.FieldErrors
	)
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, "validation_failed", fieldErrs.Error()
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "invalid_request", "invalid JSON body"
	case errors.Is(err, backend.ErrNotConfigured):
		return http.StatusPreconditionRequired, "config_required", "URL API belum dikonfigurasi"
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusServiceUnavailable, "service_unavailable", msgUnavailable
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "backend_error", backend.Message(err, msgBackend)
	case errors.Is(err, backend.ErrBadResponse):
		return http.StatusBadGateway, "bad_response", msgBackend
	case errors.Is(err, backend.ErrInvalidURL):
		return http.StatusBadRequest, "invalid_url", "URL API tidak valid"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", msgNoAccess
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", "Data tidak ditemukan"
	case errors.Is(err, validation.ErrNoThumbnail):
		return http.StatusNotFound, "no_thumbnail", err.Error()
	case errors.Is(err, validation.ErrAlreadyFinal):
		return http.StatusConflict, "already_final", err.Error()
	case errors.Is(err, report.ErrNoData):
		return http.StatusUnprocessableEntity, "no_data", err.Error()
	case errors.Is(err, payment.ErrProofTooLarge):
		return http.StatusRequestEntityTooLarge, "proof_too_large", err.Error()
	case errors.Is(err, payment.ErrProofType),
		errors.Is(err, payment.ErrProofRequired),
		errors.Is(err, payment.ErrNoOrder),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidMethod),
		errors.Is(err, ordering.ErrEmptyCart),
		errors.Is(err, ordering.ErrInvalidStep),
		errors.Is(err, ordering.ErrBookUnknown),
		errors.Is(err, validation.ErrNoteRequired),
		errors.Is(err, validation.ErrUnknownFilter),
		errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, session.ErrMissingCredentials):
		return http.StatusBadRequest, "invalid_argument", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "Permintaan melebihi batas waktu"
	}
	return http.StatusInternalServerError, "internal_error", msgGeneric
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}

	resp := ErrorResponse{Error: message, Code: code}
	var fieldErrs ordering.FieldErrors
	if errors.As(err, &fieldErrs) {
		resp.Fields = fieldErrs
	}
	respondJSON(w, status, resp)
}
