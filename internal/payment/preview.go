// Package payment implements payment entry: order lookup, the live preview,
// proof upload checks, and the role specific submission.
package payment

import (
	"github.com/shopspring/decimal"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

// Differences under one thousand rupiah count as paid in full.
const tolerance = 1000

var (
	shareSekolah = decimal.RequireFromString("0.07")
	shareDaerah  = decimal.RequireFromString("0.065")
)

type Preview struct {
	TotalTagihan     int64              `json:"totalTagihan"`
	JumlahBayar      int64              `json:"jumlahBayar"`
	SisaKelebihan    int64              `json:"sisaKelebihan"`
	Status           domain.OrderStatus `json:"status"`
	BagiHasilSekolah int64              `json:"bagiHasilSekolah"`
	BagiHasilDaerah  int64              `json:"bagiHasilDaerah"`
	TotalBagiHasil   int64              `json:"totalBagiHasil"`
}

func NewPreview(total, paid int64) Preview {
	sekolah, daerah := Shares(total)
	remaining := paid - total
	return Preview{
		TotalTagihan:     total,
		JumlahBayar:      paid,
		SisaKelebihan:    remaining,
		Status:           Classify(remaining),
		BagiHasilSekolah: sekolah,
		BagiHasilDaerah:  daerah,
		TotalBagiHasil:   sekolah + daerah,
	}
}

// Classify maps paid minus total to the order status.
func Classify(remaining int64) domain.OrderStatus {
	switch {
	case remaining > -tolerance && remaining < tolerance:
		return domain.OrderPaid
	case remaining > 0:
		return domain.OrderOverpaid
	default:
		return domain.OrderUnpaid
	}
}

// Shares returns the school and region revenue shares of total, rounded to
// whole rupiah.
func Shares(total int64) (sekolah, daerah int64) {
	t := decimal.NewFromInt(total)
	return t.Mul(shareSekolah).Round(0).IntPart(), t.Mul(shareDaerah).Round(0).IntPart()
}
