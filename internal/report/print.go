package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
)

//go:embed templates/print.html
var templates embed.FS

var printTemplate = template.Must(template.ParseFS(templates, "templates/print.html"))

type printRow struct {
	No        int
	ID        string
	Tanggal   string
	Kabupaten string
	Sekolah   string
	Jenjang   string
	Jenis     string
	Judul     string
	Kelas     string
	Jumlah    string
	Harga     string
	Total     string
	Status    string
}

type printSummary struct {
	Count, Books, Value, Average string
}

type printPage struct {
	Title      string
	FilterInfo string
	StartDate  string
	EndDate    string
	PrintDate  string
	Rows       []printRow
	Summary    printSummary
}

// Print renders the printable html page. Unlike the file exports an empty
// report still prints, with an empty table.
func (r *Report) Print(buf *bytes.Buffer) error {
	page := printPage{
		Title:      r.Title(),
		FilterInfo: r.Query.FilterInfo(),
		StartDate:  format.Date(r.Query.StartDate),
		EndDate:    format.Date(r.Query.EndDate),
		PrintDate:  r.PrintedAt.In(format.Location).Format("02/01/2006"),
		Rows:       make([]printRow, len(r.Rows)),
		Summary: printSummary{
			Count:   format.Number(int64(r.Summary.TotalPesanan)),
			Books:   format.Number(r.Summary.TotalBuku),
			Value:   format.Currency(float64(r.Summary.TotalNilai)),
			Average: format.Currency(float64(r.Summary.RataRata)),
		},
	}
	for i, o := range r.Rows {
		page.Rows[i] = printRow{
			No:        i + 1,
			ID:        o.IDPesanan.String(),
			Tanggal:   rowDate(o),
			Kabupaten: o.Kabupaten,
			Sekolah:   o.Sekolah,
			Jenjang:   o.Jenjang,
			Jenis:     o.JenisBuku,
			Judul:     o.JudulBuku,
			Kelas:     o.Kelas.String(),
			Jumlah:    format.Number(o.Jumlah.Int()),
			Harga:     format.Currency(o.HargaSatuan.Float()),
			Total:     format.Currency(o.Total.Float()),
			Status:    string(o.Status),
		}
	}
	if err := printTemplate.Execute(buf, page); err != nil {
		return fmt.Errorf("render print view failed: %w", err)
	}
	return nil
}
