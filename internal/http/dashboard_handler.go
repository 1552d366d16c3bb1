package http

import (
	"context"
	"net/http"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/dashboard"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

type DashboardLoader interface {
	Load(ctx context.Context, kabupaten string) (*dashboard.View, error)
}

type DashboardHandler struct {
	dashboard  DashboardLoader
	masterData MasterDataSource
}

func NewDashboardHandler(d DashboardLoader, md MasterDataSource) *DashboardHandler {
	return &DashboardHandler{dashboard: d, masterData: md}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Load(r.Context(), r.URL.Query().Get("kabupaten"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *DashboardHandler) MasterData(w http.ResponseWriter, r *http.Request) {
	md, err := h.masterData.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.MasterData{
		KabupatenList: md.Kabupaten(),
		BukuIsmuba:    md.BukuIsmuba,
		BukuMipa:      md.BukuMipa,
	})
}
