package backend

import (
	"context"
	"net/url"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

// ReportQuery holds the server side filters of getDataForCetak.
// Dates are yyyy-mm-dd.
type ReportQuery struct {
	Kabupaten string
	Jenis     string
	StartDate string
	EndDate   string
}

type AdminPaymentRequest struct {
	IDPesanan    string `json:"idPesanan"`
	JumlahBayar  int64  `json:"jumlahBayar"`
	TanggalBayar string `json:"tanggalBayar"`
	MetodeBayar  string `json:"metodeBayar"`
	Keterangan   string `json:"keterangan"`
}

type ProofPaymentRequest struct {
	IDPesanan     string `json:"idPesanan"`
	JumlahBayar   int64  `json:"jumlahBayar"`
	TanggalBayar  string `json:"tanggalBayar"`
	Sekolah       string `json:"sekolah"`
	TotalTagihan  int64  `json:"totalTagihan"`
	BuktiTransfer string `json:"buktiTransfer"`
	MetodeBayar   string `json:"metodeBayar"`
	Keterangan    string `json:"keterangan"`
}

// PaymentReceipt is what the backend answers to a payment submission.
type PaymentReceipt struct {
	Status           string        `json:"status"`
	NotaNo           string        `json:"notaNo,omitempty"`
	TotalTagihan     domain.Number `json:"totalTagihan"`
	SisaKelebihan    domain.Number `json:"sisaKelebihan"`
	BagiHasilSekolah domain.Number `json:"bagiHasilSekolah"`
	BagiHasilDaerah  domain.Number `json:"bagiHasilDaerah"`
}

type ValidateRequest struct {
	IDPesanan string                  `json:"idPesanan"`
	Status    domain.ValidationStatus `json:"status"`
	Catatan   string                  `json:"catatan"`
}

// Ping is the connection check used after the endpoint changes.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "getMasterData", nil, nil)
}

func (c *Client) MasterData(ctx context.Context) (*domain.MasterData, error) {
	var md domain.MasterData
	if err := c.get(ctx, "getMasterData", nil, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// Login sends the credentials in the request body only.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var resp struct {
		User *domain.User `json:"user"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "login", payload, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &APIError{Method: "login", Message: "data user tidak ditemukan"}
	}
	return resp.User, nil
}

func (c *Client) ReportRows(ctx context.Context, q ReportQuery) ([]domain.Order, error) {
	var resp struct {
		Data []domain.Order `json:"data"`
	}
	params := url.Values{
		"kabupaten": {q.Kabupaten},
		"jenis":     {q.Jenis},
		"startDate": {q.StartDate},
		"endDate":   {q.EndDate},
	}
	if err := c.get(ctx, "getDataForCetak", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Dashboard(ctx context.Context, kabupaten string) (*domain.DashboardData, error) {
	var d domain.DashboardData
	if err := c.get(ctx, "getDashboardData", url.Values{"kabupaten": {kabupaten}}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SearchOrders runs searchOrders. filterBy is "all" or "id".
func (c *Client) SearchOrders(ctx context.Context, query, filterBy string) ([]domain.Order, error) {
	var resp struct {
		Results []domain.Order `json:"results"`
	}
	params := url.Values{"query": {query}, "filterBy": {filterBy}}
	if err := c.get(ctx, "searchOrders", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) CreateOrderLine(ctx context.Context, line domain.OrderLine) error {
	return c.post(ctx, "inputPemesanan", line, nil)
}

func (c *Client) InputPayment(ctx context.Context, req AdminPaymentRequest) (*PaymentReceipt, error) {
	var r PaymentReceipt
	if err := c.post(ctx, "inputPembayaran", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UploadPayment(ctx context.Context, req ProofPaymentRequest) (*PaymentReceipt, error) {
	var r PaymentReceipt
	if err := c.post(ctx, "uploadPaymentWithProof", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// PaymentsForValidation takes the filter key (pending, verified, rejected, all).
func (c *Client) PaymentsForValidation(ctx context.Context, status string) ([]domain.Payment, error) {
	var resp struct {
		Data []domain.Payment `json:"data"`
	}
	if err := c.get(ctx, "getPaymentsForValidation", url.Values{"status": {status}}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) PaymentDetail(ctx context.Context, idPesanan string) (*domain.PaymentDetail, error) {
	var resp struct {
		Data *domain.PaymentDetail `json:"data"`
	}
	if err := c.get(ctx, "getPaymentDetail", url.Values{"idPesanan": {idPesanan}}, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, domain.ErrNotFound
	}
	return resp.Data, nil
}

// ValidatePayment returns the receipt number issued on verification.
func (c *Client) ValidatePayment(ctx context.Context, req ValidateRequest) (string, error) {
	var resp struct {
		NotaNo string `json:"notaNo"`
	}
	if err := c.post(ctx, "validatePayment", req, &resp); err != nil {
		return "", err
	}
	return resp.NotaNo, nil
}

func (c *Client) Nota(ctx context.Context, notaNo string) (*domain.Nota, error) {
	var resp struct {
		Data *domain.Nota `json:"data"`
	}
	if err := c.get(ctx, "generateNota", url.Values{"notaNo": {notaNo}}, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, domain.ErrNotFound
	}
	return resp.Data, nil
}
