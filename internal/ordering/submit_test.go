package ordering

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/events"
)

type CreatorMock struct {
	mu    sync.Mutex
	lines []domain.OrderLine
	fail  map[string]error
}

func (c *CreatorMock) CreateOrderLine(_ context.Context, line domain.OrderLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
	return c.fail[line.JenisBuku]
}

type PublisherMock struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *PublisherMock) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func threeItemWizard() *Wizard {
	w := NewWizard()
	w.SetSchool(validSchool())
	w.Cart.Add(book("A", "7", 0, 10000, 0), domain.JenjangSMP)
	w.Cart.Add(book("B", "7", 0, 20000, 0), domain.JenjangSMP)
	w.Cart.Add(book("C", "7", 0, 30000, 0), domain.JenjangSMP)
	w.Catatan = "segera"
	return w
}

func TestSubmit_AllLinesSucceed(t *testing.T) {
	creator := &CreatorMock{}
	pub := &PublisherMock{}
	s := NewSubmitter(creator, pub)
	w := threeItemWizard()

	results, err := s.Submit(context.Background(), &domain.User{Username: "op"}, w)

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Len(t, creator.lines, 3)
	assert.Len(t, pub.events, 3)
	assert.Equal(t, events.OrderLineCreated, pub.events[0].Type)
	assert.True(t, w.Cart.Empty())
	assert.Equal(t, StepSchoolInfo, w.Step)
}

func TestSubmit_LinePayload(t *testing.T) {
	creator := &CreatorMock{}
	s := NewSubmitter(creator, events.Nop{})
	w := NewWizard()
	w.SetSchool(validSchool())
	w.Cart.Add(book("ISMUBA", "8", 0, 25000, 0), domain.JenjangSMP)
	w.Cart.Increase(domain.BookKey{Jenis: "ISMUBA", Kelas: "8"})
	w.Catatan = "catatan"

	_, err := s.Submit(context.Background(), nil, w)
	require.NoError(t, err)

	require.Len(t, creator.lines, 1)
	assert.Equal(t, domain.OrderLine{
		Kabupaten:   "Kendal",
		Jenjang:     domain.JenjangSMP,
		NamaSekolah: "SMP Muhammadiyah 1 Kendal",
		JenisBuku:   "ISMUBA",
		Kelas:       "8",
		JudulBuku:   "ISMUBA Kelas 8",
		Jumlah:      2,
		Catatan:     "catatan",
	}, creator.lines[0])
}

func TestSubmit_SecondLineFailsKeepsCart(t *testing.T) {
	creator := &CreatorMock{fail: map[string]error{
		"B": &backend.APIError{Method: "inputPemesanan", Message: "Stok tidak cukup"},
	}}
	pub := &PublisherMock{}
	s := NewSubmitter(creator, pub)
	w := threeItemWizard()

	results, err := s.Submit(context.Background(), nil, w)

	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Index)
	assert.Equal(t, "Stok tidak cukup", err.Error())

	// every line was still sent, and the others stay created
	assert.Len(t, creator.lines, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.True(t, results[2].OK)
	assert.Len(t, pub.events, 2)

	assert.Equal(t, 3, len(w.Cart.Items))
	assert.Equal(t, StepSchoolInfo, w.Step)
	assert.Equal(t, "segera", w.Catatan)
}

func TestSubmit_FirstFailureInCartOrder(t *testing.T) {
	creator := &CreatorMock{fail: map[string]error{
		"B": errors.New("b failed"),
		"C": &backend.APIError{Message: "c failed"},
	}}
	s := NewSubmitter(creator, events.Nop{})

	_, err := s.Submit(context.Background(), nil, threeItemWizard())

	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "B", le.Judul[:1])
	assert.Equal(t, "Gagal menyimpan beberapa pesanan", err.Error())
}

func TestSubmit_EmptyCart(t *testing.T) {
	creator := &CreatorMock{}
	s := NewSubmitter(creator, events.Nop{})
	w := NewWizard()
	w.SetSchool(validSchool())

	_, err := s.Submit(context.Background(), nil, w)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, creator.lines)
}
