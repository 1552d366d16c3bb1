package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
)

var (
	pdfHeaders = []string{"No", "ID Pesanan", "Tanggal", "Kab/Kota", "Sekolah", "Jenjang", "Jenis", "Judul", "Kelas", "Jumlah", "Harga", "Total", "Status"}
	pdfWidths  = []float64{10, 25, 20, 25, 30, 15, 20, 30, 15, 15, 20, 25, 20}
)

const (
	pdfRowHeight = 6
	pdfTextLimit = 20
)

func writePDF(r *Report, buf *bytes.Buffer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(14, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Halaman %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(r.Title()), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if info := r.Query.FilterInfo(); info != "Semua Data" {
		pdf.CellFormat(0, 5, tr("Filter: "+info), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Tanggal Cetak: "+r.PrintedAt.In(format.Location).Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range pdfHeaders {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, o := range r.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		cells := []string{
			fmt.Sprint(i + 1),
			o.IDPesanan.String(),
			rowDate(o),
			o.Kabupaten,
			format.Truncate(o.Sekolah, pdfTextLimit),
			o.Jenjang,
			o.JenisBuku,
			format.Truncate(o.JudulBuku, pdfTextLimit),
			o.Kelas.String(),
			format.Number(o.Jumlah.Int()),
			format.Currency(o.HargaSatuan.Float()),
			format.Currency(o.Total.Float()),
			string(o.Status),
		}
		for j, c := range cells {
			align := "L"
			if j == 0 || j >= 8 && j <= 11 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[j], pdfRowHeight, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	s := r.Summary
	pdf.CellFormat(66, 6, fmt.Sprintf("Total Data: %d", s.TotalPesanan), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Total Buku: "+format.Number(s.TotalBuku), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total Nilai: "+format.Currency(float64(s.TotalNilai)), "", 1, "L", false, 0, "")

	if err := pdf.Output(buf); err != nil {
		return fmt.Errorf("render pdf failed: %w", err)
	}
	return nil
}
