package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/events"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/metrics"
)

var (
	ErrNoOrder       = errors.New("pilih pesanan terlebih dahulu")
	ErrInvalidAmount = errors.New("jumlah pembayaran harus lebih dari 0")
	ErrInvalidMethod = errors.New("metode pembayaran tidak valid")
)

type Backend interface {
	InputPayment(ctx context.Context, req backend.AdminPaymentRequest) (*backend.PaymentReceipt, error)
	UploadPayment(ctx context.Context, req backend.ProofPaymentRequest) (*backend.PaymentReceipt, error)
}

type Input struct {
	JumlahBayar  int64  `json:"jumlahBayar"`
	TanggalBayar string `json:"tanggalBayar"`
	MetodeBayar  string `json:"metodeBayar"`
	Keterangan   string `json:"keterangan"`
	Proof        *Proof `json:"-"`
}

type Result struct {
	IDPesanan        string `json:"idPesanan"`
	Status           string `json:"status"`
	NotaNo           string `json:"notaNo,omitempty"`
	TotalTagihan     int64  `json:"totalTagihan"`
	JumlahBayar      int64  `json:"jumlahBayar"`
	SisaKelebihan    int64  `json:"sisaKelebihan"`
	BagiHasilSekolah int64  `json:"bagiHasilSekolah"`
	BagiHasilDaerah  int64  `json:"bagiHasilDaerah"`
}

type Service struct {
	backend   Backend
	publisher events.Publisher
	now       func() time.Time
}

func NewService(b Backend, publisher events.Publisher) *Service {
	return &Service{backend: b, publisher: publisher, now: time.Now}
}

// Submit sends the payment for the selected order. Operators upload a proof
// and the payment waits for admin validation; admins record it directly.
// The selection is cleared on success.
func (s *Service) Submit(ctx context.Context, user *domain.User, st *State, in Input) (*Result, error) {
	if user == nil || (user.Role != domain.RoleAdmin && user.Role != domain.RoleOperator) {
		return nil, domain.ErrForbidden
	}
	if st.Selected == nil {
		return nil, ErrNoOrder
	}
	if in.JumlahBayar <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.MetodeBayar == "" {
		in.MetodeBayar = Methods(user.Role)[0]
	}
	if !validMethod(user.Role, in.MetodeBayar) {
		return nil, ErrInvalidMethod
	}
	if strings.TrimSpace(in.TanggalBayar) == "" {
		in.TanggalBayar = format.ISODate(s.now())
	}

	var (
		res *Result
		err error
	)
	if user.IsAdmin() {
		res, err = s.submitAdmin(ctx, st.Selected, in)
	} else {
		res, err = s.submitOperator(ctx, st.Selected, in)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("payment submit failed",
			slog.String("id_pesanan", st.Selected.IDPesanan.String()),
			slog.String("role", string(user.Role)),
			slog.String("err", err.Error()))
		return nil, err
	}

	metrics.Payments.WithLabelValues(string(user.Role)).Inc()
	s.publisher.Publish(ctx, events.New(events.PaymentSubmitted, res.IDPesanan, user.Username, map[string]any{
		"jumlahBayar": res.JumlahBayar,
		"metodeBayar": in.MetodeBayar,
		"status":      res.Status,
		"notaNo":      res.NotaNo,
	}))
	st.Clear()
	return res, nil
}

func (s *Service) submitAdmin(ctx context.Context, o *domain.Order, in Input) (*Result, error) {
	receipt, err := s.backend.InputPayment(ctx, backend.AdminPaymentRequest{
		IDPesanan:    o.IDPesanan.String(),
		JumlahBayar:  in.JumlahBayar,
		TanggalBayar: in.TanggalBayar,
		MetodeBayar:  in.MetodeBayar,
		Keterangan:   in.Keterangan,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		IDPesanan:        o.IDPesanan.String(),
		Status:           receipt.Status,
		NotaNo:           receipt.NotaNo,
		TotalTagihan:     receipt.TotalTagihan.Int(),
		JumlahBayar:      in.JumlahBayar,
		SisaKelebihan:    receipt.SisaKelebihan.Int(),
		BagiHasilSekolah: receipt.BagiHasilSekolah.Int(),
		BagiHasilDaerah:  receipt.BagiHasilDaerah.Int(),
	}, nil
}

func (s *Service) submitOperator(ctx context.Context, o *domain.Order, in Input) (*Result, error) {
	if in.Proof == nil {
		return nil, ErrProofRequired
	}
	total := o.Total.Int()
	receipt, err := s.backend.UploadPayment(ctx, backend.ProofPaymentRequest{
		IDPesanan:     o.IDPesanan.String(),
		JumlahBayar:   in.JumlahBayar,
		TanggalBayar:  in.TanggalBayar,
		Sekolah:       o.Sekolah,
		TotalTagihan:  total,
		BuktiTransfer: in.Proof.DataURL,
		MetodeBayar:   in.MetodeBayar,
		Keterangan:    in.Keterangan,
	})
	if err != nil {
		return nil, err
	}

	p := NewPreview(total, in.JumlahBayar)
	return &Result{
		IDPesanan:        o.IDPesanan.String(),
		Status:           domain.ValidationPending.String(),
		NotaNo:           receipt.NotaNo,
		TotalTagihan:     total,
		JumlahBayar:      in.JumlahBayar,
		SisaKelebihan:    p.SisaKelebihan,
		BagiHasilSekolah: p.BagiHasilSekolah,
		BagiHasilDaerah:  p.BagiHasilDaerah,
	}, nil
}
