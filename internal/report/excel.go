package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	sheetOrders   = "Pemesanan Buku"
	sheetSummary  = "Ringkasan"
	colKabupaten  = "Kabupaten/Kota"
	colSekolah    = "Sekolah"
	sheetBadChars = `:\/?*[]`
)

var orderColumns = []string{
	"No", "ID Pesanan", "Tanggal", colKabupaten, colSekolah, "Jenjang",
	"Jenis Buku", "Judul Buku", "Kelas", "Jumlah", "Harga Satuan", "Total", "Status",
}

func columnsWithout(drop ...string) []string {
	out := make([]string, 0, len(orderColumns))
	for _, c := range orderColumns {
		skip := false
		for _, d := range drop {
			if c == d {
				skip = true
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

func cellValue(col string, i int, o domain.Order) any {
	switch col {
	case "No":
		return i + 1
	case "ID Pesanan":
		return o.IDPesanan.String()
	case "Tanggal":
		return rowDate(o)
	case colKabupaten:
		return o.Kabupaten
	case colSekolah:
		return o.Sekolah
	case "Jenjang":
		return o.Jenjang
	case "Jenis Buku":
		return o.JenisBuku
	case "Judul Buku":
		return o.JudulBuku
	case "Kelas":
		return o.Kelas.String()
	case "Jumlah":
		return o.Jumlah.Float()
	case "Harga Satuan":
		return o.HargaSatuan.Float()
	case "Total":
		return o.Total.Float()
	case "Status":
		return string(o.Status)
	}
	return nil
}

type workbook struct {
	f      *excelize.File
	header int
	used   map[string]bool
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2980B9"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style failed: %w", err)
	}
	return &workbook{f: f, header: header, used: make(map[string]bool)}, nil
}

// sheet adds a sheet with a name excel accepts, made unique within the file.
func (w *workbook) sheet(name string) (string, error) {
	name = w.uniqueName(sheetName(name))
	if len(w.used) == 0 {
		if err := w.f.SetSheetName(defaultSheet, name); err != nil {
			return "", fmt.Errorf("rename sheet failed: %w", err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return "", fmt.Errorf("create sheet %q failed: %w", name, err)
	}
	w.used[strings.ToLower(name)] = true
	return name, nil
}

func (w *workbook) uniqueName(name string) string {
	if !w.used[strings.ToLower(name)] {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := format.Truncate(name, maxSheetName-len(suffix)) + suffix
		if !w.used[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(sheetBadChars, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "-"
	}
	return format.Truncate(name, maxSheetName)
}

func (w *workbook) writeRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) writeOrders(sheet string, cols []string, rows []domain.Order) error {
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := w.writeRow(sheet, 1, header); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		return fmt.Errorf("style header failed: %w", err)
	}

	for i, o := range rows {
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = cellValue(c, i, o)
		}
		if err := w.writeRow(sheet, i+2, values); err != nil {
			return fmt.Errorf("write row %d failed: %w", i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	if err := w.f.SetColWidth(sheet, "B", lastCol, 18); err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "A", "A", 5)
}

func (w *workbook) finish(buf *bytes.Buffer) error {
	w.f.SetActiveSheet(0)
	if _, err := w.f.WriteTo(buf); err != nil {
		return fmt.Errorf("write workbook failed: %w", err)
	}
	return nil
}

func writeXLSX(r *Report, buf *bytes.Buffer) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}
	defer w.f.Close()
	name, err := w.sheet(sheetOrders)
	if err != nil {
		return err
	}
	if err := w.writeOrders(name, orderColumns, r.Rows); err != nil {
		return err
	}
	return w.finish(buf)
}

type group struct {
	kabupaten string
	sekolah   string
	rows      []domain.Order
}

type schoolKey struct {
	kabupaten string
	sekolah   string
}

func bySchool(o domain.Order) schoolKey {
	return schoolKey{kabupaten: o.Kabupaten, sekolah: o.Sekolah}
}

// groupBy keeps first-seen order of the keys.
func groupBy[K comparable](rows []domain.Order, key func(domain.Order) K) ([]K, map[K]*group) {
	var order []K
	groups := make(map[K]*group)
	for _, o := range rows {
		k := key(o)
		g, ok := groups[k]
		if !ok {
			g = &group{kabupaten: o.Kabupaten, sekolah: o.Sekolah}
			groups[k] = g
			order = append(order, k)
		}
		g.rows = append(g.rows, o)
	}
	return order, groups
}

func writeXLSXByKabupaten(r *Report, buf *bytes.Buffer) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}
	defer w.f.Close()
	cols := columnsWithout(colKabupaten)
	order, groups := groupBy(r.Rows, func(o domain.Order) string { return o.Kabupaten })
	for _, k := range order {
		name, err := w.sheet(k)
		if err != nil {
			return err
		}
		if err := w.writeOrders(name, cols, groups[k].rows); err != nil {
			return err
		}
	}
	return w.finish(buf)
}

func writeXLSXBySekolah(r *Report, buf *bytes.Buffer) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}
	defer w.f.Close()
	cols := columnsWithout(colKabupaten, colSekolah)
	order, groups := groupBy(r.Rows, bySchool)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		if a.kabupaten != b.kabupaten {
			return a.kabupaten < b.kabupaten
		}
		return a.sekolah < b.sekolah
	})
	for _, k := range order {
		g := groups[k]
		name, err := w.sheet(format.Truncate(g.kabupaten, 15) + "-" + format.Truncate(g.sekolah, 15))
		if err != nil {
			return err
		}
		if err := w.writeOrders(name, cols, g.rows); err != nil {
			return err
		}
	}
	return w.finish(buf)
}

type tally struct {
	count int
	books int64
	value float64
}

func tallyBy(rows []domain.Order, key func(domain.Order) string) ([]string, map[string]*tally) {
	var order []string
	out := make(map[string]*tally)
	for _, o := range rows {
		k := key(o)
		t, ok := out[k]
		if !ok {
			t = &tally{}
			out[k] = t
			order = append(order, k)
		}
		t.count++
		t.books += o.Jumlah.Int()
		t.value += o.Total.Float()
	}
	return order, out
}

func writeXLSXSummary(r *Report, buf *bytes.Buffer) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}
	defer w.f.Close()
	name, err := w.sheet(sheetSummary)
	if err != nil {
		return err
	}

	s := r.Summary
	lines := [][]any{
		{"LAPORAN RINGKASAN PEMESANAN BUKU"},
		{"Tanggal Cetak", r.PrintedAt.In(format.Location).Format("02/01/2006")},
		{""},
		{"STATISTIK UMUM"},
		{"Total Data", s.TotalPesanan},
		{"Total Buku", s.TotalBuku},
		{"Total Nilai", format.Currency(float64(s.TotalNilai))},
		{""},
		{"STATISTIK PER JENIS BUKU"},
		{"Jenis Buku", "Jumlah Pesanan", "Jumlah Buku", "Total Nilai"},
	}
	order, byJenis := tallyBy(r.Rows, func(o domain.Order) string { return o.JenisBuku })
	for _, k := range order {
		t := byJenis[k]
		lines = append(lines, []any{k, t.count, t.books, format.Currency(t.value)})
	}
	lines = append(lines,
		[]any{""},
		[]any{"STATISTIK PER KABUPATEN"},
		[]any{colKabupaten, "Jumlah Pesanan", "Jumlah Buku", "Total Nilai"},
	)
	order, byKab := tallyBy(r.Rows, func(o domain.Order) string { return o.Kabupaten })
	for _, k := range order {
		t := byKab[k]
		lines = append(lines, []any{k, t.count, t.books, format.Currency(t.value)})
	}

	for i, line := range lines {
		if err := w.writeRow(name, i+1, line); err != nil {
			return fmt.Errorf("write summary row failed: %w", err)
		}
	}
	if err := w.f.SetColWidth(name, "A", "D", 24); err != nil {
		return err
	}
	return w.finish(buf)
}
