package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/validation"
)

type ValidationService interface {
	List(ctx context.Context, f validation.Filter) (*validation.Listing, error)
	Detail(ctx context.Context, id string) (*domain.PaymentDetail, error)
	Thumbnail(ctx context.Context, id string) ([]byte, error)
	Verify(ctx context.Context, admin *domain.User, id, note string, f validation.Filter) (*validation.Outcome, error)
	Reject(ctx context.Context, admin *domain.User, id, note string, f validation.Filter) (*validation.Outcome, error)
}

type ValidationHandler struct {
	service ValidationService
}

func NewValidationHandler(service ValidationService) *ValidationHandler {
	return &ValidationHandler{service: service}
}

type DecisionRequestDTO struct {
	Catatan string `json:"catatan"`
}

// filterFromQuery reads the list filter. Verify and reject reuse it so the
// refreshed list matches what the admin was looking at.
func filterFromQuery(r *http.Request) validation.Filter {
	q := r.URL.Query()
	return validation.Filter{
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		Kabupaten: q.Get("kabupaten"),
		Date:      q.Get("date"),
	}
}

func (h *ValidationHandler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (h *ValidationHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *ValidationHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	img, err := h.service.Thumbnail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

func (h *ValidationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Verify)
}

func (h *ValidationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

type decision func(ctx context.Context, admin *domain.User, id, note string, f validation.Filter) (*validation.Outcome, error)

func (h *ValidationHandler) decide(w http.ResponseWriter, r *http.Request, fn decision) {
	sess, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req DecisionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handleError(w, r, errInvalidBody)
		return
	}

	outcome, err := fn(r.Context(), sess.User, chi.URLParam(r, "id"), req.Catatan, filterFromQuery(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
