package http

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/nota"
)

type NotaFinder interface {
	Find(ctx context.Context, notaNo string) (*domain.Nota, error)
	Recent(ctx context.Context) ([]domain.Order, error)
}

type NotaHandler struct {
	notas NotaFinder
}

func NewNotaHandler(notas NotaFinder) *NotaHandler {
	return &NotaHandler{notas: notas}
}

type ShareResponse struct {
	Text string `json:"text"`
}

type RecentResponse struct {
	Orders []domain.Order `json:"orders"`
}

func (h *NotaHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.notas.Find(r.Context(), chi.URLParam(r, "notaNo"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (h *NotaHandler) PDF(w http.ResponseWriter, r *http.Request) {
	n, err := h.notas.Find(r.Context(), chi.URLParam(r, "notaNo"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := nota.WritePDF(&buf, n); err != nil {
		handleError(w, r, err)
		return
	}
	respondFile(w, nota.Filename(n), "application/pdf", buf.Bytes())
}

func (h *NotaHandler) Share(w http.ResponseWriter, r *http.Request) {
	n, err := h.notas.Find(r.Context(), chi.URLParam(r, "notaNo"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ShareResponse{Text: nota.ShareText(n)})
}

func (h *NotaHandler) Recent(w http.ResponseWriter, r *http.Request) {
	orders, err := h.notas.Recent(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, RecentResponse{Orders: orders})
}
