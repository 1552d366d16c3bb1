package nota

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WritePDF renders an A4 portrait receipt.
func WritePDF(w io.Writer, n *domain.Nota) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 15, 20)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// watermark
	pdf.SetFont("Helvetica", "B", 80)
	pdf.SetTextColor(235, 235, 235)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 150)
	pdf.Text(70, 160, "NOTA")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)

	center := func(size float64, style string, h float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.CellFormat(0, h, tr(text), "", 1, "C", false, 0, "")
	}
	center(18, "B", 8, "NOTA PEMBAYARAN")
	center(14, "B", 7, "BUKU ISMUBA & MIPA")
	center(9, "", 5, "Sistem Informasi Manajemen Pemesanan Buku")
	pdf.Line(20, pdf.GetY()+2, 190, pdf.GetY()+2)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Informasi Nota:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range [][2]string{
		{"Nomor Nota", n.NotaNo},
		{"Tanggal", format.Date(n.Tanggal)},
		{"ID Pesanan", n.IDPesanan.String()},
		{"Kabupaten/Kota", orDash(n.Kabupaten)},
		{"Sekolah", orDash(n.Sekolah)},
		{"Petugas", orDash(n.UserInput)},
	} {
		pdf.CellFormat(40, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(": "+line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(110, 7, "Keterangan", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 7, "Jumlah (Rp)", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	amount := func(label string, v domain.Number) {
		pdf.CellFormat(110, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, format.Currency(v.Float()), "1", 1, "R", false, 0, "")
	}
	amount("Total Tagihan", n.TotalTagihan)
	amount("Jumlah Pembayaran", n.JumlahBayar)
	amount("Sisa/Kelebihan", n.SisaKelebihan)
	amount("Bagi Hasil Sekolah (7%)", n.BagiHasilSekolah)
	amount("Bagi Hasil Daerah (6.5%)", n.BagiHasilDaerah)
	pdf.SetFont("Helvetica", "B", 10)
	amount("Total Bagi Hasil", n.BagiHasilSekolah+n.BagiHasilDaerah)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr("Status: "+orDash(n.Status)), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(85, 6, "Penerima,", "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, "Penyetor,", "", 1, "C", false, 0, "")
	pdf.Ln(20)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(85, 6, "Bagian Keuangan", "", 0, "C", false, 0, "")
	sekolah := n.Sekolah
	if sekolah == "" {
		sekolah = "Sekolah"
	}
	pdf.CellFormat(85, 6, tr(format.Truncate(sekolah, 40)), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(85, 5, "Sistem Informasi Manajemen", "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 5, "Perwakilan Sekolah", "", 1, "C", false, 0, "")

	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 4, "Nota ini sah dan diterbitkan otomatis oleh Sistem Informasi Manajemen Pemesanan Buku", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render nota failed: %w", err)
	}
	return nil
}
