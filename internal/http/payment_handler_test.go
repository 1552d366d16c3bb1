package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/draft"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/payment"
)

var unpaidOrder = domain.Order{
	IDPesanan: "ORD-001",
	Kabupaten: "Kendal",
	Sekolah:   "SD Muhammadiyah 1",
	Total:     100000,
	Status:    domain.OrderUnpaid,
}

func newPaymentFixture(searcher OrderSearcher, payments *PaymentsMock) (*PaymentHandler, *draft.MemoryStore[payment.State]) {
	drafts := draft.NewMemoryStore[payment.State]()
	return NewPaymentHandler(drafts, searcher, payments, 8<<20), drafts
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(proofField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	request := httptest.NewRequest("POST", "/api/v1/payments", &body)
	request.Header.Set("Content-Type", mw.FormDataContentType())
	return withUser(request, operatorUser)
}

func pdfBytes(size int) []byte {
	b := bytes.Repeat([]byte{' '}, size)
	copy(b, "%PDF-1.4\n")
	return b
}

func TestPaymentHandler_SearchSuperseded(t *testing.T) {
	handler, _ := newPaymentFixture(SearcherMock{err: payment.ErrSuperseded}, &PaymentsMock{})

	recorder := httptest.NewRecorder()
	handler.Search(recorder, withUser(httptest.NewRequest("GET", "/?q=SD+Muh", nil), operatorUser))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}

func TestPaymentHandler_Search(t *testing.T) {
	handler, _ := newPaymentFixture(SearcherMock{orders: []domain.Order{unpaidOrder}}, &PaymentsMock{})

	recorder := httptest.NewRecorder()
	handler.Search(recorder, withUser(httptest.NewRequest("GET", "/?q=ORD", nil), operatorUser))

	require.Equal(t, http.StatusOK, recorder.Code)
	var response SearchResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, domain.Text("ORD-001"), response.Results[0].IDPesanan)
}

func TestPaymentHandler_SelectSuggestsTotal(t *testing.T) {
	handler, drafts := newPaymentFixture(SearcherMock{orders: []domain.Order{unpaidOrder}}, &PaymentsMock{})

	recorder := httptest.NewRecorder()
	handler.Select(recorder, jsonRequest("POST", SelectRequestDTO{IDPesanan: "ORD-001"}))

	require.Equal(t, http.StatusOK, recorder.Code)
	var response PaymentStateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, int64(100000), response.SuggestedAmount)
	assert.Equal(t, []string{"Transfer Bank", "Tunai"}, response.Methods)
	require.NotNil(t, response.Preview)
	assert.Equal(t, domain.OrderPaid, response.Preview.Status)
	assert.Equal(t, "Pas", response.QuickAmounts[len(response.QuickAmounts)-1].Label)

	st, err := drafts.Load(context.Background(), "sess-kendal")
	require.NoError(t, err)
	assert.Equal(t, domain.Text("ORD-001"), st.Selected.IDPesanan)
}

func TestPaymentHandler_SelectIgnoresClientOrderData(t *testing.T) {
	handler, drafts := newPaymentFixture(SearcherMock{orders: []domain.Order{unpaidOrder}}, &PaymentsMock{})

	forged := unpaidOrder
	forged.Total = 1
	forged.Sekolah = "SMP X"
	recorder := httptest.NewRecorder()
	handler.Select(recorder, jsonRequest("POST", forged))

	require.Equal(t, http.StatusOK, recorder.Code)
	st, err := drafts.Load(context.Background(), "sess-kendal")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), st.Selected.Total.Int())
	assert.Equal(t, "SD Muhammadiyah 1", st.Selected.Sekolah)
	assert.Equal(t, int64(100000), st.SuggestedAmount)
}

func TestPaymentHandler_SelectUnknownOrder(t *testing.T) {
	handler, drafts := newPaymentFixture(SearcherMock{orders: []domain.Order{unpaidOrder}}, &PaymentsMock{})

	recorder := httptest.NewRecorder()
	handler.Select(recorder, jsonRequest("POST", SelectRequestDTO{IDPesanan: "ORD-999"}))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	_, err := drafts.Load(context.Background(), "sess-kendal")
	assert.ErrorIs(t, err, draft.ErrNotFound)
}

func TestPaymentHandler_Preview(t *testing.T) {
	handler, _ := newPaymentFixture(SearcherMock{}, &PaymentsMock{})

	recorder := httptest.NewRecorder()
	handler.Preview(recorder, jsonRequest("POST", PreviewRequestDTO{TotalTagihan: 1000000, JumlahBayar: 1050000}))

	require.Equal(t, http.StatusOK, recorder.Code)
	var p payment.Preview
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&p))
	assert.Equal(t, domain.OrderOverpaid, p.Status)
	assert.Equal(t, int64(70000), p.BagiHasilSekolah)
	assert.Equal(t, int64(65000), p.BagiHasilDaerah)
}

func TestPaymentHandler_OversizedProofNeverReachesBackend(t *testing.T) {
	payments := &PaymentsMock{}
	handler, drafts := newPaymentFixture(SearcherMock{}, payments)
	st := payment.NewState()
	st.Select(unpaidOrder)
	require.NoError(t, drafts.Save(context.Background(), "sess-kendal", st))

	recorder := httptest.NewRecorder()
	handler.Submit(recorder, multipartRequest(t, map[string]string{"jumlahBayar": "100000"}, "bukti.pdf", pdfBytes(6<<20)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	assert.Equal(t, 0, payments.calls)
}

func TestPaymentHandler_DocxRejected(t *testing.T) {
	payments := &PaymentsMock{}
	handler, _ := newPaymentFixture(SearcherMock{}, payments)

	// a docx is a zip container
	docx := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0}, 64)...)
	recorder := httptest.NewRecorder()
	handler.Submit(recorder, multipartRequest(t, map[string]string{"jumlahBayar": "100000"}, "bukti.docx", docx))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, 0, payments.calls)
}

func TestPaymentHandler_OperatorSubmit(t *testing.T) {
	payments := &PaymentsMock{result: &payment.Result{IDPesanan: "ORD-001", Status: "Menunggu Validasi", JumlahBayar: 100000}}
	handler, drafts := newPaymentFixture(SearcherMock{}, payments)
	st := payment.NewState()
	st.Select(unpaidOrder)
	require.NoError(t, drafts.Save(context.Background(), "sess-kendal", st))

	recorder := httptest.NewRecorder()
	handler.Submit(recorder, multipartRequest(t, map[string]string{
		"jumlahBayar": "100000",
		"metodeBayar": "Transfer Bank",
		"keterangan":  "cicilan 1",
	}, "bukti.pdf", pdfBytes(4<<20)))

	require.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, payments.input.Proof)
	assert.Equal(t, "application/pdf", payments.input.Proof.ContentType)
	assert.Equal(t, int64(100000), payments.input.JumlahBayar)
	assert.Equal(t, "cicilan 1", payments.input.Keterangan)

	saved, err := drafts.Load(context.Background(), "sess-kendal")
	require.NoError(t, err)
	assert.Nil(t, saved.Selected)
}

func TestPaymentHandler_AdminJSONSubmit(t *testing.T) {
	payments := &PaymentsMock{result: &payment.Result{IDPesanan: "ORD-001", Status: "Lunas", NotaNo: "NOTA-1"}}
	handler, _ := newPaymentFixture(SearcherMock{}, payments)

	body, _ := json.Marshal(payment.Input{JumlahBayar: 100000, MetodeBayar: "Giro"})
	request := withUser(httptest.NewRequest("POST", "/", bytes.NewReader(body)), adminUser)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.Submit(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "Giro", payments.input.MetodeBayar)
	assert.Nil(t, payments.input.Proof)
}
