// Package dashboard shapes getDashboardData into what the dashboard page
// renders: counters, recent orders, charts and the region filter.
package dashboard

import (
	"context"
	"sort"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

var MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

type Fetcher interface {
	Dashboard(ctx context.Context, kabupaten string) (*domain.DashboardData, error)
}

type Counters struct {
	TotalBuku       int64 `json:"totalBuku"`
	TotalUangIsmuba int64 `json:"totalUangIsmuba"`
	TotalUangMipa   int64 `json:"totalUangMipa"`
	TotalSekolah    int64 `json:"totalSekolah"`
}

// StatusCounts is computed over the recent orders only.
type StatusCounts struct {
	Total    int `json:"total"`
	Unpaid   int `json:"belumLunas"`
	Paid     int `json:"lunas"`
	Overpaid int `json:"kelebihan"`
}

type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type LineChart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

type Doughnut struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type View struct {
	Kabupaten     string               `json:"kabupaten,omitempty"`
	Counters      Counters             `json:"counters"`
	RecentOrders  []domain.RecentOrder `json:"recentOrders"`
	Status        StatusCounts         `json:"status"`
	Monthly       LineChart            `json:"monthly"`
	Distribution  Doughnut             `json:"distribution"`
	KabupatenList []string             `json:"kabupatenList"`
}

type Service struct {
	fetcher Fetcher
}

func NewService(f Fetcher) *Service {
	return &Service{fetcher: f}
}

// Load fetches fresh data on every call; the dashboard keeps nothing.
func (s *Service) Load(ctx context.Context, kabupaten string) (*View, error) {
	d, err := s.fetcher.Dashboard(ctx, kabupaten)
	if err != nil {
		return nil, err
	}
	return Project(d, kabupaten), nil
}

func Project(d *domain.DashboardData, kabupaten string) *View {
	v := &View{
		Kabupaten: kabupaten,
		Counters: Counters{
			TotalBuku:       d.TotalBuku.Int(),
			TotalUangIsmuba: d.TotalUangIsmuba.Int(),
			TotalUangMipa:   d.TotalUangMipa.Int(),
			TotalSekolah:    d.TotalSekolah.Int(),
		},
		RecentOrders: d.RecentOrders,
		Status:       countStatus(d.RecentOrders),
		Distribution: Doughnut{
			Labels: []string{"ISMUBA", "MIPA"},
			Values: []float64{d.TotalUangIsmuba.Float(), d.TotalUangMipa.Float()},
		},
		KabupatenList: append([]string(nil), d.KabupatenList...),
	}
	if v.RecentOrders == nil {
		v.RecentOrders = []domain.RecentOrder{}
	}
	sort.Strings(v.KabupatenList)

	var ismuba, mipa []domain.Number
	if d.MonthlyData != nil {
		ismuba, mipa = d.MonthlyData.Ismuba, d.MonthlyData.Mipa
	}
	v.Monthly = LineChart{
		Labels: MonthLabels,
		Series: []Series{
			{Label: "ISMUBA", Data: twelve(ismuba)},
			{Label: "MIPA", Data: twelve(mipa)},
		},
	}
	return v
}

func countStatus(orders []domain.RecentOrder) StatusCounts {
	c := StatusCounts{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case domain.OrderUnpaid:
			c.Unpaid++
		case domain.OrderPaid:
			c.Paid++
		case domain.OrderOverpaid:
			c.Overpaid++
		}
	}
	return c
}

// twelve pads or cuts a monthly series to one value per month.
func twelve(in []domain.Number) []float64 {
	out := make([]float64, len(MonthLabels))
	for i := 0; i < len(out) && i < len(in); i++ {
		out[i] = in[i].Float()
	}
	return out
}
