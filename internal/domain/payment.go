package domain

// ValidationStatus is the admin review state of a payment.
type ValidationStatus string

const (
	ValidationPending  ValidationStatus = "Menunggu Validasi"
	ValidationVerified ValidationStatus = "Tervalidasi"
	ValidationRejected ValidationStatus = "Ditolak"
)

// IsTerminal reports whether no further transition is allowed.
func (s ValidationStatus) IsTerminal() bool {
	return s == ValidationVerified || s == ValidationRejected
}

// String representation (for logging)
func (s ValidationStatus) String() string {
	return string(s)
}

type Payment struct {
	IDPesanan        Text             `json:"idPesanan"`
	Sekolah          string           `json:"sekolah"`
	Kabupaten        string           `json:"kabupaten"`
	TanggalBayar     string           `json:"tanggalBayar"`
	JumlahBayar      Number           `json:"jumlahBayar"`
	TotalTagihan     Number           `json:"totalTagihan"`
	SisaKelebihan    Number           `json:"sisaKelebihan"`
	MetodeBayar      string           `json:"metodeBayar,omitempty"`
	Keterangan       string           `json:"keterangan,omitempty"`
	BuktiTransfer    string           `json:"buktiTransfer,omitempty"`
	StatusValidasi   ValidationStatus `json:"statusValidasi"`
	NotaNo           string           `json:"notaNo,omitempty"`
	BagiHasilSekolah Number           `json:"bagiHasilSekolah"`
	BagiHasilDaerah  Number           `json:"bagiHasilDaerah"`
	CatatanAdmin     string           `json:"catatanAdmin,omitempty"`
	TanggalValidasi  string           `json:"tanggalValidasi,omitempty"`
	Validator        string           `json:"validator,omitempty"`
	UserInput        string           `json:"userInput,omitempty"`
}

// PaymentDetail is the getPaymentDetail payload.
type PaymentDetail struct {
	Payment Payment `json:"payment"`
	Order   Order   `json:"order"`
}

// Nota is the receipt issued for a verified payment.
type Nota struct {
	NotaNo           string `json:"notaNo"`
	Tanggal          string `json:"tanggal"`
	IDPesanan        Text   `json:"idPesanan"`
	Kabupaten        string `json:"kabupaten"`
	Sekolah          string `json:"sekolah"`
	TotalTagihan     Number `json:"totalTagihan"`
	JumlahBayar      Number `json:"jumlahBayar"`
	SisaKelebihan    Number `json:"sisaKelebihan"`
	BagiHasilSekolah Number `json:"bagiHasilSekolah"`
	BagiHasilDaerah  Number `json:"bagiHasilDaerah"`
	Status           string `json:"status"`
	UserInput        string `json:"userInput"`
}
