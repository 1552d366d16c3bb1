package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/ordering"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/payment"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/session"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/validation"
)

var (
	adminUser    = &domain.User{ID: "1", Username: "admin", Nama: "Admin PWM", Role: domain.RoleAdmin}
	operatorUser = &domain.User{ID: "2", Username: "kendal", Nama: "Operator Kendal", Role: domain.RoleOperator}
)

func withUser(r *http.Request, u *domain.User) *http.Request {
	sess := &domain.Session{ID: "sess-" + u.Username, User: u, LastActivity: time.Now()}
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, sess))
}

type SessionsMock struct {
	sessions  map[string]*domain.Session
	loginErr  error
	loggedOut []string
	resetErr  error
	resets    int
}

func (m *SessionsMock) Check(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionsMock) Login(_ context.Context, username, _ string) (*domain.Session, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &domain.Session{ID: "new-session", User: &domain.User{Username: username, Role: domain.RoleOperator}}, nil
}

func (m *SessionsMock) Touch(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return session.ErrSessionExpired
	}
	return nil
}

func (m *SessionsMock) Logout(_ context.Context, id string) error {
	m.loggedOut = append(m.loggedOut, id)
	return nil
}

func (m *SessionsMock) LogoutAll(context.Context) error {
	m.resets++
	return m.resetErr
}

func (m *SessionsMock) Timeout() time.Duration {
	return 30 * time.Minute
}

type MasterDataMock struct {
	md          *domain.MasterData
	err         error
	invalidated int
}

func (m *MasterDataMock) Get(context.Context) (*domain.MasterData, error) {
	return m.md, m.err
}

func (m *MasterDataMock) Invalidate(context.Context) {
	m.invalidated++
}

type SubmitterMock struct {
	results []ordering.LineResult
	err     error
	reset   bool
	calls   int
}

func (m *SubmitterMock) Submit(_ context.Context, _ *domain.User, w *ordering.Wizard) ([]ordering.LineResult, error) {
	m.calls++
	if m.err == nil && m.reset {
		w.Reset()
	}
	return m.results, m.err
}

type SearcherMock struct {
	orders []domain.Order
	err    error
}

func (m SearcherMock) Search(context.Context, string, string, string) ([]domain.Order, error) {
	return m.orders, m.err
}

func (m SearcherMock) Lookup(_ context.Context, id string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.IDPesanan.String() == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

type PaymentsMock struct {
	mu     sync.Mutex
	calls  int
	input  payment.Input
	result *payment.Result
	err    error
}

func (m *PaymentsMock) Submit(_ context.Context, _ *domain.User, st *payment.State, in payment.Input) (*payment.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	st.Clear()
	return m.result, nil
}

type ValidationMock struct {
	listing    *validation.Listing
	detail     *domain.PaymentDetail
	outcome    *validation.Outcome
	err        error
	lastNote   string
	lastFilter validation.Filter
}

func (m *ValidationMock) List(_ context.Context, f validation.Filter) (*validation.Listing, error) {
	m.lastFilter = f
	return m.listing, m.err
}

func (m *ValidationMock) Detail(context.Context, string) (*domain.PaymentDetail, error) {
	return m.detail, m.err
}

func (m *ValidationMock) Thumbnail(context.Context, string) ([]byte, error) {
	return []byte{0xff, 0xd8}, m.err
}

func (m *ValidationMock) Verify(_ context.Context, _ *domain.User, _, note string, f validation.Filter) (*validation.Outcome, error) {
	m.lastNote, m.lastFilter = note, f
	return m.outcome, m.err
}

func (m *ValidationMock) Reject(_ context.Context, _ *domain.User, _, note string, f validation.Filter) (*validation.Outcome, error) {
	m.lastNote, m.lastFilter = note, f
	return m.outcome, m.err
}
