package ordering

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/events"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/logger"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/metrics"
)

type LineCreator interface {
	CreateOrderLine(ctx context.Context, line domain.OrderLine) error
}

type LineResult struct {
	Jenis string `json:"jenis"`
	Kelas string `json:"kelas"`
	Judul string `json:"judul"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// LineError is the first failed line in cart order.
type LineError struct {
	Index int
	Judul string
	Err   error
}

func (e *LineError) Error() string {
	return backend.Message(e.Err, "Gagal menyimpan beberapa pesanan")
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type Submitter struct {
	creator   LineCreator
	publisher events.Publisher
}

func NewSubmitter(creator LineCreator, publisher events.Publisher) *Submitter {
	return &Submitter{creator: creator, publisher: publisher}
}

// Submit sends one order line per cart item, all at once, and waits for
// every one of them. Lines already created stay created when another line
// fails; the wizard is then left untouched so the user can retry. On full
// success the wizard is reset.
func (s *Submitter) Submit(ctx context.Context, actor *domain.User, w *Wizard) ([]LineResult, error) {
	if w.Cart.Empty() {
		return nil, ErrEmptyCart
	}
	if err := w.School.Validate(); err != nil {
		return nil, err
	}

	items := w.Cart.Items
	errs := make([]error, len(items))
	var g errgroup.Group
	for i, it := range items {
		line := domain.OrderLine{
			Kabupaten:   w.School.Kabupaten,
			Jenjang:     w.School.Jenjang,
			NamaSekolah: w.School.NamaSekolah,
			JenisBuku:   it.Jenis,
			Kelas:       it.Kelas,
			JudulBuku:   it.Judul,
			Jumlah:      it.Jumlah,
			Catatan:     w.Catatan,
		}
		g.Go(func() error {
			errs[i] = s.creator.CreateOrderLine(ctx, line)
			return errs[i]
		})
	}
	groupErr := g.Wait()

	log := logger.FromContext(ctx)
	results := make([]LineResult, len(items))
	var first *LineError
	for i, it := range items {
		results[i] = LineResult{Jenis: it.Jenis, Kelas: it.Kelas, Judul: it.Judul, OK: errs[i] == nil}
		if errs[i] != nil {
			results[i].Error = backend.Message(errs[i], "Gagal menyimpan pesanan")
			metrics.OrderLines.WithLabelValues("failed").Inc()
			if first == nil {
				first = &LineError{Index: i, Judul: it.Judul, Err: errs[i]}
			}
			continue
		}
		metrics.OrderLines.WithLabelValues("created").Inc()
		s.publisher.Publish(ctx, events.New(events.OrderLineCreated, w.School.NamaSekolah, actorName(actor), map[string]any{
			"kabupaten": w.School.Kabupaten,
			"jenjang":   w.School.Jenjang,
			"jenisBuku": it.Jenis,
			"kelas":     it.Kelas,
			"judulBuku": it.Judul,
			"jumlah":    it.Jumlah,
			"subtotal":  it.Subtotal(),
		}))
	}

	if groupErr != nil {
		log.Warn("order submit partially failed",
			slog.Int("lines", len(items)),
			slog.Int("first_failed", first.Index),
			slog.String("err", groupErr.Error()))
		return results, first
	}

	log.Info("order submitted",
		slog.String("sekolah", w.School.NamaSekolah),
		slog.Int("lines", len(items)),
		slog.Int64("total", w.Cart.Total()))
	w.Reset()
	return results, nil
}

func actorName(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
