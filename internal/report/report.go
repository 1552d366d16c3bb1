// Package report loads order rows for the print and download page and
// renders them as xlsx, pdf, csv and printable html.
package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
)

const defaultRange = 30 * 24 * time.Hour

var ErrNoData = errors.New("tidak ada data untuk diekspor")

type RowFetcher interface {
	ReportRows(ctx context.Context, q backend.ReportQuery) ([]domain.Order, error)
}

// Query combines the backend filters (kabupaten, jenis, dates) and the
// local ones (status, jenjang). Dates are yyyy-mm-dd.
type Query struct {
	Kabupaten string `json:"kabupaten,omitempty"`
	Jenis     string `json:"jenis,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Status    string `json:"status,omitempty"`
	Jenjang   string `json:"jenjang,omitempty"`
}

// WithDefaults fills an empty range with the last 30 days.
func (q Query) WithDefaults(now time.Time) Query {
	if q.EndDate == "" {
		q.EndDate = format.ISODate(now)
	}
	if q.StartDate == "" {
		q.StartDate = format.ISODate(now.Add(-defaultRange))
	}
	return q
}

// FilterInfo describes the active filters, "Semua Data" when none is set.
func (q Query) FilterInfo() string {
	var parts []string
	if q.Kabupaten != "" {
		parts = append(parts, "Kabupaten: "+q.Kabupaten)
	}
	if q.Jenis != "" {
		parts = append(parts, "Jenis: "+q.Jenis)
	}
	if q.Status != "" {
		parts = append(parts, "Status: "+q.Status)
	}
	if q.Jenjang != "" {
		parts = append(parts, "Jenjang: "+q.Jenjang)
	}
	if len(parts) == 0 {
		return "Semua Data"
	}
	return strings.Join(parts, ", ")
}

type Summary struct {
	TotalPesanan int   `json:"totalPesanan"`
	TotalBuku    int64 `json:"totalBuku"`
	TotalNilai   int64 `json:"totalNilai"`
	RataRata     int64 `json:"rataRata"`
}

func Summarize(rows []domain.Order) Summary {
	s := Summary{TotalPesanan: len(rows)}
	var value float64
	for _, r := range rows {
		s.TotalBuku += r.Jumlah.Int()
		value += r.Total.Float()
	}
	s.TotalNilai = int64(value)
	if len(rows) > 0 {
		s.RataRata = int64(value / float64(len(rows)))
	}
	return s
}

type Report struct {
	Query     Query          `json:"query"`
	Rows      []domain.Order `json:"rows"`
	Summary   Summary        `json:"summary"`
	PrintedAt time.Time      `json:"printedAt"`
}

type Service struct {
	fetcher RowFetcher
	now     func() time.Time
}

func NewService(fetcher RowFetcher) *Service {
	return &Service{fetcher: fetcher, now: time.Now}
}

func (s *Service) Load(ctx context.Context, q Query) (*Report, error) {
	now := s.now()
	q = q.WithDefaults(now)
	rows, err := s.fetcher.ReportRows(ctx, backend.ReportQuery{
		Kabupaten: q.Kabupaten,
		Jenis:     q.Jenis,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		return nil, err
	}

	rows = filterRows(rows, q)
	return &Report{
		Query:     q,
		Rows:      rows,
		Summary:   Summarize(rows),
		PrintedAt: now,
	}, nil
}

func filterRows(rows []domain.Order, q Query) []domain.Order {
	out := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		if q.Status != "" && string(r.Status) != q.Status {
			continue
		}
		if q.Jenjang != "" && r.Jenjang != q.Jenjang {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Title is the document heading, suffixed with the kabupaten filter.
func (r *Report) Title() string {
	title := "LAPORAN PEMESANAN BUKU ISMUBA & MIPA"
	if r.Query.Kabupaten != "" {
		title += " - " + r.Query.Kabupaten
	}
	return title
}

// rowDate prefers tanggal and falls back to tanggalPesan.
func rowDate(o domain.Order) string {
	if o.Tanggal != "" {
		return format.Date(o.Tanggal)
	}
	return format.Date(o.TanggalPesan)
}
