// Package nota looks up payment receipts and renders them for printing and
// sharing.
package nota

import (
	"context"
	"strings"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
)

const (
	recentWindow = 7 * 24 * time.Hour
	recentLimit  = 10
)

type Backend interface {
	Nota(ctx context.Context, notaNo string) (*domain.Nota, error)
	ReportRows(ctx context.Context, q backend.ReportQuery) ([]domain.Order, error)
}

type Service struct {
	backend Backend
	now     func() time.Time
}

func NewService(b Backend) *Service {
	return &Service{backend: b, now: time.Now}
}

func (s *Service) Find(ctx context.Context, notaNo string) (*domain.Nota, error) {
	notaNo = strings.TrimSpace(notaNo)
	if notaNo == "" {
		return nil, domain.ErrNotFound
	}
	return s.backend.Nota(ctx, notaNo)
}

// Recent returns the newest order rows of the last week, newest first.
func (s *Service) Recent(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.backend.ReportRows(ctx, backend.ReportQuery{
		StartDate: format.ISODate(s.now().Add(-recentWindow)),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) > recentLimit {
		rows = rows[len(rows)-recentLimit:]
	}
	out := make([]domain.Order, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out, nil
}

func Filename(n *domain.Nota) string {
	return "Nota_" + n.NotaNo + ".pdf"
}

func ShareText(n *domain.Nota) string {
	var b strings.Builder
	b.WriteString("Nota Pembayaran Buku ISMUBA & MIPA\n\n")
	b.WriteString("Nomor: " + n.NotaNo + "\n")
	b.WriteString("Tanggal: " + format.Date(n.Tanggal) + "\n")
	b.WriteString("Sekolah: " + n.Sekolah + "\n")
	b.WriteString("Total: " + format.Currency(n.TotalTagihan.Float()) + "\n")
	b.WriteString("Status: " + n.Status)
	return b.String()
}
