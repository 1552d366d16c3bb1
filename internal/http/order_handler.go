package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/draft"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/ordering"
)

type OrderSubmitter interface {
	Submit(ctx context.Context, actor *domain.User, w *ordering.Wizard) ([]ordering.LineResult, error)
}

// OrderHandler drives the three step order wizard. The wizard of each
// session lives in the draft store between requests.
type OrderHandler struct {
	drafts     draft.Store[ordering.Wizard]
	masterData MasterDataSource
	submitter  OrderSubmitter
}

func NewOrderHandler(drafts draft.Store[ordering.Wizard], md MasterDataSource, submitter OrderSubmitter) *OrderHandler {
	return &OrderHandler{drafts: drafts, masterData: md, submitter: submitter}
}

type StepRequestDTO struct {
	Action string `json:"action"` // next, back or goto
	Step   int    `json:"step,omitempty"`
}

type CartRequestDTO struct {
	Jenis  string `json:"jenis"`
	Kelas  string `json:"kelas"`
	Action string `json:"action,omitempty"` // set, increase or decrease
	Jumlah int    `json:"jumlah,omitempty"`
}

type SubmitRequestDTO struct {
	Catatan string `json:"catatan"`
}

type WizardResponse struct {
	*ordering.Wizard
	TotalBooks int   `json:"totalBuku"`
	Total      int64 `json:"total"`
}

type BooksResponse struct {
	Books      []ordering.BookCard `json:"books"`
	Categories []string            `json:"categories"`
}

type SubmitResponse struct {
	Message string                `json:"message,omitempty"`
	Error   string                `json:"error,omitempty"`
	Code    string                `json:"code,omitempty"`
	Results []ordering.LineResult `json:"results"`
}

func wizardResponse(wz *ordering.Wizard) WizardResponse {
	return WizardResponse{Wizard: wz, TotalBooks: wz.Cart.TotalBooks(), Total: wz.Cart.Total()}
}

// load returns the session and its wizard, or answers the request itself.
func (h *OrderHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Session, *ordering.Wizard, bool) {
	sess, ok := currentUser(w, r)
	if !ok {
		return nil, nil, false
	}
	wz, err := draft.LoadOr(r.Context(), h.drafts, sess.ID, ordering.NewWizard)
	if err != nil {
		handleError(w, r, err)
		return nil, nil, false
	}
	return sess, wz, true
}

func (h *OrderHandler) save(w http.ResponseWriter, r *http.Request, sid string, wz *ordering.Wizard) bool {
	if err := h.drafts.Save(r.Context(), sid, wz); err != nil {
		handleError(w, r, err)
		return false
	}
	return true
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(wz))
}

func (h *OrderHandler) SetSchool(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	var info ordering.SchoolInfo
	if err := decodeJSON(r, &info); err != nil {
		handleError(w, r, err)
		return
	}
	wz.SetSchool(info)
	if !h.save(w, r, sess.ID, wz) {
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(wz))
}

func (h *OrderHandler) Step(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	var req StepRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var err error
	switch req.Action {
	case "next":
		err = wz.Next()
	case "back":
		wz.Back()
	case "goto":
		err = wz.GoTo(ordering.Step(req.Step))
	default:
		err = ordering.ErrInvalidStep
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !h.save(w, r, sess.ID, wz) {
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(wz))
}

// Books lists the catalog for the school's level with cart quantities.
func (h *OrderHandler) Books(w http.ResponseWriter, r *http.Request) {
	_, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	if !wz.School.Jenjang.Valid() {
		handleError(w, r, ordering.FieldErrors{"jenjang": "required"})
		return
	}
	md, err := h.masterData.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	books := ordering.FilterBooks(md.AllBooks(), ordering.BookFilter{
		Jenjang:  wz.School.Jenjang,
		Jenis:    q.Get("jenis"),
		Kategori: q.Get("kategori"),
		Search:   q.Get("search"),
	})
	respondJSON(w, http.StatusOK, BooksResponse{
		Books:      ordering.Cards(books, wz.School.Jenjang, &wz.Cart),
		Categories: ordering.Categories(md.AllBooks(), wz.School.Jenjang),
	})
}

func (h *OrderHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	var req CartRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := wz.School.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	md, err := h.masterData.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := wz.AddBook(md, domain.BookKey{Jenis: req.Jenis, Kelas: req.Kelas}); err != nil {
		handleError(w, r, err)
		return
	}
	if !h.save(w, r, sess.ID, wz) {
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(wz))
}

func (h *OrderHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	var req CartRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	key := domain.BookKey{Jenis: req.Jenis, Kelas: req.Kelas}
	var found bool
	switch req.Action {
	case "set", "":
		found = wz.Cart.SetQuantity(key, req.Jumlah)
	case "increase":
		found = wz.Cart.Increase(key)
	case "decrease":
		found = wz.Cart.Decrease(key)
	default:
		respondError(w, http.StatusBadRequest, "invalid_action", "action must be set, increase or decrease")
		return
	}
	if !found {
		handleError(w, r, domain.ErrNotFound)
		return
	}
	if !h.save(w, r, sess.ID, wz) {
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(wz))
}

func (h *OrderHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	if !wz.Cart.Remove(domain.BookKey{Jenis: q.Get("jenis"), Kelas: q.Get("kelas")}) {
		handleError(w, r, domain.ErrNotFound)
		return
	}
	if !h.save(w, r, sess.ID, wz) {
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(wz))
}

func (h *OrderHandler) Review(w http.ResponseWriter, r *http.Request) {
	_, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, wz.Review())
}

// Submit sends the cart from the review step. When a line fails the wizard
// keeps its cart and the response still lists the result of every line.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	if wz.Step != ordering.StepReview {
		handleError(w, r, ordering.ErrInvalidStep)
		return
	}
	var req SubmitRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	wz.Catatan = req.Catatan

	results, err := h.submitter.Submit(r.Context(), sess.User, wz)
	if !h.save(w, r, sess.ID, wz) {
		return
	}

	var lineErr *ordering.LineError
	switch {
	case errors.As(err, &lineErr):
		status, code, _ := classify(lineErr.Err)
		respondJSON(w, status, SubmitResponse{Error: lineErr.Error(), Code: code, Results: results})
	case err != nil:
		handleError(w, r, err)
	default:
		respondJSON(w, http.StatusCreated, SubmitResponse{Message: "Pesanan berhasil disimpan", Results: results})
	}
}

func (h *OrderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.drafts.Delete(r.Context(), sess.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, wizardResponse(ordering.NewWizard()))
}
