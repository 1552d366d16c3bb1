package ordering

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

type Step int

const (
	StepSchoolInfo Step = iota + 1
	StepBookSelection
	StepReview
)

var (
	ErrEmptyCart   = errors.New("keranjang masih kosong")
	ErrInvalidStep = errors.New("langkah tidak valid")
	ErrBookUnknown = errors.New("buku tidak ditemukan")
)

type SchoolInfo struct {
	Kabupaten     string         `json:"kabupaten" validate:"required"`
	Jenjang       domain.Jenjang `json:"jenjang" validate:"required,oneof=SD SMP SMA"`
	NamaSekolah   string         `json:"namaSekolah" validate:"required"`
	AlamatSekolah string         `json:"alamatSekolah" validate:"required"`
	NamaPemesan   string         `json:"namaPemesan" validate:"required"`
	Telepon       string         `json:"telepon" validate:"required"`
	Email         string         `json:"email" validate:"required,email"`
}

// FieldErrors maps a json field name to the failed rule.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "Mohon lengkapi semua field yang wajib diisi: " + strings.Join(fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s SchoolInfo) Validate() error {
	err := validate.Struct(trimmed(s))
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func trimmed(s SchoolInfo) SchoolInfo {
	s.Kabupaten = strings.TrimSpace(s.Kabupaten)
	s.NamaSekolah = strings.TrimSpace(s.NamaSekolah)
	s.AlamatSekolah = strings.TrimSpace(s.AlamatSekolah)
	s.NamaPemesan = strings.TrimSpace(s.NamaPemesan)
	s.Telepon = strings.TrimSpace(s.Telepon)
	s.Email = strings.TrimSpace(s.Email)
	return s
}

// Wizard is the per-session state of the three step order form.
type Wizard struct {
	Step    Step       `json:"step"`
	School  SchoolInfo `json:"schoolInfo"`
	Cart    Cart       `json:"cart"`
	Catatan string     `json:"catatan,omitempty"`
}

func NewWizard() *Wizard {
	return &Wizard{Step: StepSchoolInfo}
}

// SetSchool stores the form values without moving. Prices depend on the
// level, so changing it empties the cart.
func (w *Wizard) SetSchool(info SchoolInfo) {
	if info.Jenjang != w.School.Jenjang {
		w.Cart.Clear()
	}
	w.School = trimmed(info)
}

func (w *Wizard) Next() error {
	if err := w.check(w.Step); err != nil {
		return err
	}
	if w.Step == StepReview {
		return ErrInvalidStep
	}
	w.Step++
	return nil
}

func (w *Wizard) Back() {
	if w.Step > StepSchoolInfo {
		w.Step--
	}
}

// GoTo moves backward freely. Moving forward needs every step before the
// target to be valid.
func (w *Wizard) GoTo(target Step) error {
	if target < StepSchoolInfo || target > StepReview {
		return ErrInvalidStep
	}
	for s := StepSchoolInfo; s < target; s++ {
		if err := w.check(s); err != nil {
			return err
		}
	}
	w.Step = target
	return nil
}

func (w *Wizard) check(s Step) error {
	switch s {
	case StepSchoolInfo:
		return w.School.Validate()
	case StepBookSelection:
		if w.Cart.Empty() {
			return ErrEmptyCart
		}
	}
	return nil
}

// AddBook looks the key up in the catalog and adds it at the school's price.
func (w *Wizard) AddBook(md *domain.MasterData, key domain.BookKey) error {
	b, ok := md.FindBook(key)
	if !ok {
		return ErrBookUnknown
	}
	w.Cart.Add(b, w.School.Jenjang)
	return nil
}

func (w *Wizard) Reset() {
	*w = *NewWizard()
}

type ReviewLine struct {
	CartItem
	Subtotal int64 `json:"subtotal"`
}

type Review struct {
	School     SchoolInfo   `json:"schoolInfo"`
	Lines      []ReviewLine `json:"lines"`
	TotalBooks int          `json:"totalBuku"`
	Total      int64        `json:"total"`
	Catatan    string       `json:"catatan,omitempty"`
}

func (w *Wizard) Review() Review {
	lines := make([]ReviewLine, len(w.Cart.Items))
	for i, it := range w.Cart.Items {
		lines[i] = ReviewLine{CartItem: it, Subtotal: it.Subtotal()}
	}
	return Review{
		School:     w.School,
		Lines:      lines,
		TotalBooks: w.Cart.TotalBooks(),
		Total:      w.Cart.Total(),
		Catatan:    w.Catatan,
	}
}
