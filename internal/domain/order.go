package domain

// OrderStatus is the payment state of an order row.
type OrderStatus string

const (
	OrderPaid     OrderStatus = "Lunas"
	OrderUnpaid   OrderStatus = "Belum Lunas"
	OrderOverpaid OrderStatus = "Kelebihan"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Order is one order row. The backend stores one row per book line, so a
// school order with three books is three Orders.
type Order struct {
	IDPesanan    Text        `json:"idPesanan"`
	Tanggal      string      `json:"tanggal,omitempty"`
	TanggalPesan string      `json:"tanggalPesan,omitempty"`
	Kabupaten    string      `json:"kabupaten"`
	Sekolah      string      `json:"sekolah"`
	Jenjang      string      `json:"jenjang,omitempty"`
	JenisBuku    string      `json:"jenisBuku,omitempty"`
	JudulBuku    string      `json:"judulBuku,omitempty"`
	Kelas        Text        `json:"kelas,omitempty"`
	Jumlah       Number      `json:"jumlah"`
	HargaSatuan  Number      `json:"hargaSatuan"`
	Total        Number      `json:"total"`
	Status       OrderStatus `json:"status"`
}

// OrderLine is the inputPemesanan payload for one cart line.
type OrderLine struct {
	Kabupaten   string  `json:"kabupaten"`
	Jenjang     Jenjang `json:"jenjang"`
	NamaSekolah string  `json:"namaSekolah"`
	JenisBuku   string  `json:"jenisBuku"`
	Kelas       string  `json:"kelas"`
	JudulBuku   string  `json:"judulBuku"`
	Jumlah      int     `json:"jumlah"`
	Catatan     string  `json:"catatan"`
}
