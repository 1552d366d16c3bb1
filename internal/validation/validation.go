// Package validation is the admin review of submitted payments.
package validation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/events"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/metrics"
)

var (
	ErrAlreadyFinal  = errors.New("pembayaran sudah divalidasi")
	ErrNoteRequired  = errors.New("alasan penolakan wajib diisi")
	ErrUnknownFilter = errors.New("filter status tidak dikenal")
)

const (
	FilterPending  = "pending"
	FilterVerified = "verified"
	FilterRejected = "rejected"
	FilterAll      = "all"
)

type Backend interface {
	PaymentsForValidation(ctx context.Context, status string) ([]domain.Payment, error)
	PaymentDetail(ctx context.Context, idPesanan string) (*domain.PaymentDetail, error)
	ValidatePayment(ctx context.Context, req backend.ValidateRequest) (string, error)
}

type Filter struct {
	Status    string `json:"status"`
	Search    string `json:"search"`
	Kabupaten string `json:"kabupaten"`
	Date      string `json:"date"`
}

func (f Filter) status() string {
	if f.Status == "" {
		return FilterPending
	}
	return f.Status
}

func validFilter(s string) bool {
	switch s {
	case FilterPending, FilterVerified, FilterRejected, FilterAll:
		return true
	}
	return false
}

type Counters struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
	All      int `json:"all"`
}

type Listing struct {
	Payments []domain.Payment `json:"payments"`
	Counters Counters         `json:"counters"`
}

// Outcome is the answer to a verify or reject: the receipt number and the
// refreshed list.
type Outcome struct {
	NotaNo string `json:"notaNo,omitempty"`
	Listing
}

type Service struct {
	backend   Backend
	publisher events.Publisher
}

func NewService(b Backend, publisher events.Publisher) *Service {
	return &Service{backend: b, publisher: publisher}
}

// List fetches by status, counts, then narrows by the local filters.
func (s *Service) List(ctx context.Context, f Filter) (*Listing, error) {
	status := f.status()
	if !validFilter(status) {
		return nil, ErrUnknownFilter
	}
	payments, err := s.backend.PaymentsForValidation(ctx, status)
	if err != nil {
		return nil, err
	}

	return &Listing{
		Payments: apply(payments, f),
		Counters: count(payments),
	}, nil
}

func count(payments []domain.Payment) Counters {
	c := Counters{All: len(payments)}
	for _, p := range payments {
		switch p.StatusValidasi {
		case domain.ValidationPending:
			c.Pending++
		case domain.ValidationVerified:
			c.Verified++
		case domain.ValidationRejected:
			c.Rejected++
		}
	}
	return c
}

func apply(payments []domain.Payment, f Filter) []domain.Payment {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if search != "" && !matches(p, search) {
			continue
		}
		if f.Kabupaten != "" && p.Kabupaten != f.Kabupaten {
			continue
		}
		if f.Date != "" && datePart(p.TanggalBayar) != f.Date {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p domain.Payment, search string) bool {
	for _, field := range []string{p.IDPesanan.String(), p.Sekolah, p.Kabupaten, p.NotaNo} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func datePart(s string) string {
	if t, ok := format.ParseTime(s); ok {
		return format.ISODate(t)
	}
	d, _, _ := strings.Cut(s, "T")
	return d
}

func (s *Service) Detail(ctx context.Context, id string) (*domain.PaymentDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	return s.backend.PaymentDetail(ctx, id)
}

func (s *Service) Verify(ctx context.Context, admin *domain.User, id, note string, f Filter) (*Outcome, error) {
	return s.decide(ctx, admin, id, domain.ValidationVerified, note, f)
}

func (s *Service) Reject(ctx context.Context, admin *domain.User, id, note string, f Filter) (*Outcome, error) {
	if strings.TrimSpace(note) == "" {
		return nil, ErrNoteRequired
	}
	return s.decide(ctx, admin, id, domain.ValidationRejected, note, f)
}

// decide moves a pending payment to a terminal status. A payment that is
// already terminal is refused without calling validatePayment.
func (s *Service) decide(ctx context.Context, admin *domain.User, id string, to domain.ValidationStatus, note string, f Filter) (*Outcome, error) {
	if admin == nil || !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Payment.StatusValidasi.IsTerminal() {
		return nil, ErrAlreadyFinal
	}

	notaNo, err := s.backend.ValidatePayment(ctx, backend.ValidateRequest{
		IDPesanan: id,
		Status:    to,
		Catatan:   strings.TrimSpace(note),
	})
	if err != nil {
		return nil, err
	}

	metrics.Validations.WithLabelValues(to.String()).Inc()
	logger.FromContext(ctx).Info("payment validated",
		slog.String("id_pesanan", id),
		slog.String("status", to.String()),
		slog.String("nota_no", notaNo),
		slog.String("admin", admin.Username))
	s.publisher.Publish(ctx, events.New(events.PaymentValidated, id, admin.Username, map[string]any{
		"status":  to,
		"notaNo":  notaNo,
		"catatan": note,
	}))

	listing, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Outcome{NotaNo: notaNo, Listing: *listing}, nil
}
