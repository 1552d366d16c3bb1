package http

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/draft"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/payment"
)

const proofField = "buktiTransfer"

type OrderSearcher interface {
	Search(ctx context.Context, key, query, status string) ([]domain.Order, error)
	Lookup(ctx context.Context, id string) (*domain.Order, error)
}

type PaymentSubmitter interface {
	Submit(ctx context.Context, user *domain.User, st *payment.State, in payment.Input) (*payment.Result, error)
}

type PaymentHandler struct {
	drafts   draft.Store[payment.State]
	searcher OrderSearcher
	payments PaymentSubmitter
	maxBody  int64
}

func NewPaymentHandler(drafts draft.Store[payment.State], searcher OrderSearcher, payments PaymentSubmitter, maxBody int64) *PaymentHandler {
	return &PaymentHandler{drafts: drafts, searcher: searcher, payments: payments, maxBody: maxBody}
}

type SearchResponse struct {
	Results []domain.Order `json:"results"`
}

type SelectRequestDTO struct {
	IDPesanan string `json:"idPesanan"`
}

type PreviewRequestDTO struct {
	TotalTagihan int64 `json:"totalTagihan"`
	JumlahBayar  int64 `json:"jumlahBayar"`
}

type PaymentStateResponse struct {
	*payment.State
	Methods      []string              `json:"methods"`
	QuickAmounts []payment.QuickAmount `json:"quickAmounts"`
	Preview      *payment.Preview      `json:"preview,omitempty"`
}

func (h *PaymentHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Session, *payment.State, bool) {
	sess, ok := currentUser(w, r)
	if !ok {
		return nil, nil, false
	}
	st, err := draft.LoadOr(r.Context(), h.drafts, sess.ID, payment.NewState)
	if err != nil {
		handleError(w, r, err)
		return nil, nil, false
	}
	return sess, st, true
}

func stateResponse(role domain.Role, st *payment.State) PaymentStateResponse {
	resp := PaymentStateResponse{
		State:        st,
		Methods:      payment.Methods(role),
		QuickAmounts: payment.QuickAmounts(st.Selected),
	}
	if st.Selected != nil {
		p := payment.NewPreview(st.Selected.Total.Int(), st.SuggestedAmount)
		resp.Preview = &p
	}
	return resp
}

// Search answers 204 when a newer query from the same session replaced
// this one.
func (h *PaymentHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	orders, err := h.searcher.Search(r.Context(), sess.ID, q.Get("q"), q.Get("status"))
	switch {
	case errors.Is(err, payment.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		handleError(w, r, err)
	default:
		respondJSON(w, http.StatusOK, SearchResponse{Results: orders})
	}
}

// Select picks an order by id. Total, school and status come from the
// backend, never from the request.
func (h *PaymentHandler) Select(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.load(w, r)
	if !ok {
		return
	}
	var req SelectRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	o, err := h.searcher.Lookup(r.Context(), req.IDPesanan)
	if err != nil {
		handleError(w, r, err)
		return
	}
	st.Select(*o)
	if err := h.drafts.Save(r.Context(), sess.ID, st); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stateResponse(sess.User.Role, st))
}

// Preview computes status and shares for the amount being typed. The total
// defaults to the selected order.
func (h *PaymentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	_, st, ok := h.load(w, r)
	if !ok {
		return
	}
	var req PreviewRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.TotalTagihan == 0 && st.Selected != nil {
		req.TotalTagihan = st.Selected.Total.Int()
	}
	respondJSON(w, http.StatusOK, payment.NewPreview(req.TotalTagihan, req.JumlahBayar))
}

func (h *PaymentHandler) Options(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, stateResponse(sess.User.Role, st))
}

// Submit accepts JSON or a multipart form. The proof file, when present,
// is checked before anything is sent to the backend.
func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, st, ok := h.load(w, r)
	if !ok {
		return
	}
	in, err := h.readInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	res, err := h.payments.Submit(r.Context(), sess.User, st, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.drafts.Save(r.Context(), sess.ID, st); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *PaymentHandler) readInput(r *http.Request) (payment.Input, error) {
	var in payment.Input
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		err := decodeJSON(r, &in)
		return in, err
	}

	if err := r.ParseMultipartForm(h.maxBody); err != nil {
		return in, errInvalidBody
	}
	if v := strings.TrimSpace(r.FormValue("jumlahBayar")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, payment.ErrInvalidAmount
		}
		in.JumlahBayar = n
	}
	in.TanggalBayar = r.FormValue("tanggalBayar")
	in.MetodeBayar = r.FormValue("metodeBayar")
	in.Keterangan = r.FormValue("keterangan")

	file, header, err := r.FormFile(proofField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, nil
	case err != nil:
		return in, errInvalidBody
	}
	defer file.Close()

	if header.Size > payment.MaxProofSize {
		return in, payment.ErrProofTooLarge
	}
	proof, err := payment.ReadProof(file, header.Filename)
	if err != nil {
		return in, err
	}
	in.Proof = proof
	return in, nil
}
