package http

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/report"
)

type ReportLoader interface {
	Load(ctx context.Context, q report.Query) (*report.Report, error)
}

type ReportHandler struct {
	reports ReportLoader
}

func NewReportHandler(reports ReportLoader) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type ReportResponse struct {
	*report.Report
	FilterInfo string `json:"filterInfo"`
	Title      string `json:"title"`
}

func queryFromRequest(r *http.Request) report.Query {
	q := r.URL.Query()
	return report.Query{
		Kabupaten: q.Get("kabupaten"),
		Jenis:     q.Get("jenis"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Status:    q.Get("status"),
		Jenjang:   q.Get("jenjang"),
	}
}

// List is the grid view: rows plus summary.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Load(r.Context(), queryFromRequest(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ReportResponse{
		Report:     rep,
		FilterInfo: rep.Query.FilterInfo(),
		Title:      rep.Title(),
	})
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Load(r.Context(), queryFromRequest(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	file, err := rep.Export(chi.URLParam(r, "format"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondFile(w, file.Name, file.ContentType, file.Body)
}

func (h *ReportHandler) Print(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Load(r.Context(), queryFromRequest(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := rep.Print(&buf); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
