package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type SessionResetter interface {
	LogoutAll(ctx context.Context) error
}

type MasterDataSource interface {
	Get(ctx context.Context) (*domain.MasterData, error)
	Invalidate(ctx context.Context)
}

// ConfigHandler manages the backend url entered at runtime.
type ConfigHandler struct {
	endpoints  backend.EndpointStore
	pinger     Pinger
	sessions   SessionResetter
	masterData MasterDataSource
}

func NewConfigHandler(endpoints backend.EndpointStore, pinger Pinger, sessions SessionResetter, md MasterDataSource) *ConfigHandler {
	return &ConfigHandler{endpoints: endpoints, pinger: pinger, sessions: sessions, masterData: md}
}

type ConfigDTO struct {
	URL string `json:"url"`
}

type ConfigResponse struct {
	Configured bool   `json:"configured"`
	URL        string `json:"url,omitempty"`
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.endpoints.Get(r.Context())
	switch {
	case errors.Is(err, backend.ErrNotConfigured):
		respondJSON(w, http.StatusOK, ConfigResponse{})
	case err != nil:
		handleError(w, r, err)
	default:
		respondJSON(w, http.StatusOK, ConfigResponse{Configured: true, URL: u})
	}
}

// Put stores the url and checks the connection. A url that does not answer
// is cleared again and every user is logged out, so the next screen asks
// for the url.
func (h *ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req ConfigDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	u, err := backend.ParseEndpoint(req.URL)
	if err != nil {
		handleError(w, r, err)
		return
	}

	ctx := r.Context()
	h.masterData.Invalidate(ctx)
	if err := h.endpoints.Set(ctx, u); err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.pinger.Ping(ctx); err != nil {
		log := logger.FromContext(ctx)
		log.Warn("backend connection check failed", "url", u, "err", err)
		if err := h.endpoints.Clear(ctx); err != nil {
			log.Warn("clear backend url failed", "err", err)
		}
		if err := h.sessions.LogoutAll(ctx); err != nil {
			log.Warn("logout all sessions failed", "err", err)
		}
		status, _, _ := classify(err)
		respondJSON(w, status, ErrorResponse{
			Error:   "Tidak dapat terhubung ke API. Silakan masukkan URL yang benar.",
			Code:    "config_required",
			Details: backend.Message(err, ""),
		})
		return
	}

	logger.FromContext(ctx).Info("backend url configured", "url", u)
	respondJSON(w, http.StatusOK, ConfigResponse{Configured: true, URL: u})
}
