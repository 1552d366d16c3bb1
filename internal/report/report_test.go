package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/backend"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

type FetcherMock struct {
	query backend.ReportQuery
	rows  []domain.Order
	err   error
}

func (f *FetcherMock) ReportRows(_ context.Context, q backend.ReportQuery) ([]domain.Order, error) {
	f.query = q
	return f.rows, f.err
}

var now = time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)

var rows = []domain.Order{
	{IDPesanan: "P1", Tanggal: "2025-03-01", Kabupaten: "Kendal", Sekolah: "SD Muhammadiyah 1 Kendal Kota", Jenjang: "SD", JenisBuku: "ISMUBA", JudulBuku: "Akidah Akhlak SD Kelas 1 Edisi Revisi", Kelas: "1", Jumlah: 10, HargaSatuan: 20000, Total: 200000, Status: domain.OrderPaid},
	{IDPesanan: "P2", Tanggal: "2025-03-02", Kabupaten: "Batang", Sekolah: "SMP \"Unggulan\" Batang", Jenjang: "SMP", JenisBuku: "MIPA", JudulBuku: "Matematika SMP Kelas 7", Kelas: "7", Jumlah: 5, HargaSatuan: 30000, Total: 150000, Status: domain.OrderUnpaid},
	{IDPesanan: "P3", Tanggal: "2025-03-03", Kabupaten: "Kendal", Sekolah: "SD Muhammadiyah 1 Kendal Kota", Jenjang: "SD", JenisBuku: "MIPA", JudulBuku: "IPA SD Kelas 1", Kelas: "1", Jumlah: 4, HargaSatuan: 25000, Total: 100000, Status: domain.OrderPaid},
	{IDPesanan: "P4", Tanggal: "2025-03-04", Kabupaten: "Kendal", Sekolah: "SD Muhammadiyah 1 Kendal Barat", Jenjang: "SD", JenisBuku: "ISMUBA", JudulBuku: "Bahasa Arab SD Kelas 2", Kelas: "2", Jumlah: 1, HargaSatuan: 20000, Total: 20000, Status: domain.OrderOverpaid},
}

func newService(f *FetcherMock) *Service {
	s := NewService(f)
	s.now = func() time.Time { return now }
	return s
}

func loaded(t *testing.T) *Report {
	t.Helper()
	r, err := newService(&FetcherMock{rows: rows}).Load(context.Background(), Query{})
	require.NoError(t, err)
	return r
}

func TestLoad_DefaultRange(t *testing.T) {
	f := &FetcherMock{rows: rows}
	r, err := newService(f).Load(context.Background(), Query{Kabupaten: "Kendal"})
	require.NoError(t, err)

	assert.Equal(t, backend.ReportQuery{Kabupaten: "Kendal", StartDate: "2025-03-01", EndDate: "2025-03-31"}, f.query)
	assert.Equal(t, "LAPORAN PEMESANAN BUKU ISMUBA & MIPA - Kendal", r.Title())
}

func TestLoad_LocalFilters(t *testing.T) {
	f := &FetcherMock{rows: rows}
	r, err := newService(f).Load(context.Background(), Query{Status: "Lunas", Jenjang: "SD"})
	require.NoError(t, err)

	assert.Len(t, r.Rows, 2)
	assert.Equal(t, Summary{TotalPesanan: 2, TotalBuku: 14, TotalNilai: 300000, RataRata: 150000}, r.Summary)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestFilterInfo(t *testing.T) {
	assert.Equal(t, "Semua Data", Query{}.FilterInfo())
	assert.Equal(t, "Kabupaten: Kendal, Status: Lunas", Query{Kabupaten: "Kendal", Status: "Lunas"}.FilterInfo())
}

func TestExport_NoData(t *testing.T) {
	r := &Report{PrintedAt: now}
	for _, f := range Formats() {
		_, err := r.Export(f)
		assert.ErrorIs(t, err, ErrNoData, f)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := loaded(t).Export("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func openXLSX(t *testing.T, f *File) *excelize.File {
	t.Helper()
	x, err := excelize.OpenReader(bytes.NewReader(f.Body))
	require.NoError(t, err)
	t.Cleanup(func() { x.Close() })
	return x
}

func TestExport_XLSX(t *testing.T) {
	f, err := loaded(t).Export(FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "Laporan_Pemesanan_2025-03-31.xlsx", f.Name)

	x := openXLSX(t, f)
	assert.Equal(t, []string{"Pemesanan Buku"}, x.GetSheetList())

	all, err := x.GetRows("Pemesanan Buku")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, orderColumns, all[0])
	assert.Equal(t, "P1", all[1][1])
	assert.Equal(t, "01/03/2025", all[1][2])
	assert.Equal(t, "200000", all[1][11])
}

func TestExport_XLSXByKabupaten(t *testing.T) {
	f, err := loaded(t).Export(FormatXLSXKabupaten)
	require.NoError(t, err)
	assert.Equal(t, "Laporan_Per_Kabupaten_2025-03-31.xlsx", f.Name)

	x := openXLSX(t, f)
	assert.Equal(t, []string{"Kendal", "Batang"}, x.GetSheetList())

	kendal, err := x.GetRows("Kendal")
	require.NoError(t, err)
	assert.Len(t, kendal, 4)
	assert.NotContains(t, kendal[0], "Kabupaten/Kota")
}

func TestExport_XLSXBySekolah(t *testing.T) {
	f, err := loaded(t).Export(FormatXLSXSekolah)
	require.NoError(t, err)

	x := openXLSX(t, f)
	// "SD Muhammadiyah 1 Kendal Kota" and "... Barat" share their first
	// 15 runes, so the second sheet gets a suffix.
	assert.Equal(t, []string{
		"Batang-SMP \"Unggulan\"",
		"Kendal-SD Muhammadiyah",
		"Kendal-SD Muhammadiyah (2)",
	}, x.GetSheetList())

	// sorted by sekolah, so "... Barat" comes first
	first, err := x.GetRows("Kendal-SD Muhammadiyah")
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.NotContains(t, first[0], "Sekolah")
}

func TestGroupBy_SchoolKeyKeepsNamesApart(t *testing.T) {
	rows := []domain.Order{
		{IDPesanan: "P1", Kabupaten: "A - B", Sekolah: "C"},
		{IDPesanan: "P2", Kabupaten: "A", Sekolah: "B - C"},
	}

	order, groups := groupBy(rows, bySchool)

	require.Len(t, order, 2)
	assert.Len(t, groups[schoolKey{kabupaten: "A - B", sekolah: "C"}].rows, 1)
	assert.Len(t, groups[schoolKey{kabupaten: "A", sekolah: "B - C"}].rows, 1)
}

func TestExport_XLSXSummary(t *testing.T) {
	f, err := loaded(t).Export(FormatXLSXSummary)
	require.NoError(t, err)
	assert.Equal(t, "Ringkasan_Pemesanan_2025-03-31.xlsx", f.Name)

	x := openXLSX(t, f)
	lines, err := x.GetRows("Ringkasan")
	require.NoError(t, err)

	assert.Equal(t, "LAPORAN RINGKASAN PEMESANAN BUKU", lines[0][0])
	assert.Equal(t, []string{"Total Data", "4"}, lines[4])
	assert.Equal(t, []string{"Total Nilai", "Rp 470.000"}, lines[6])
	assert.Equal(t, []string{"ISMUBA", "2", "11", "Rp 220.000"}, lines[10])
	assert.Equal(t, []string{"Kendal", "3", "15", "Rp 320.000"}, lines[15])
}

func TestExport_PDF(t *testing.T) {
	f, err := loaded(t).Export(FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "Laporan_Pemesanan_2025-03-31.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.True(t, bytes.HasPrefix(f.Body, []byte("%PDF-")))
}

func TestExport_CSV(t *testing.T) {
	r := loaded(t)
	r.Rows = r.Rows[1:2]

	f, err := r.Export(FormatCSV)
	require.NoError(t, err)

	want := "\uFEFF" + strings.Join(orderColumns, ",") + "\n" +
		`1,"P2","02/03/2025","Batang","SMP ""Unggulan"" Batang","SMP","MIPA","Matematika SMP Kelas 7","7",5,30000,150000,"Belum Lunas"`
	assert.Equal(t, want, string(f.Body))
	assert.Equal(t, "Laporan_Pemesanan_2025-03-31.csv", f.Name)
}

func TestPrint(t *testing.T) {
	r := loaded(t)
	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))

	html := buf.String()
	assert.Contains(t, html, "LAPORAN PEMESANAN BUKU ISMUBA &amp; MIPA")
	assert.Contains(t, html, "Filter: Semua Data")
	assert.Contains(t, html, "SMP &#34;Unggulan&#34; Batang")
	assert.Contains(t, html, "Rp 470.000")
	assert.Contains(t, html, "31/03/2025")
}

func TestPrint_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Report{PrintedAt: now}).Print(&buf))
	assert.Contains(t, buf.String(), "Total Pesanan: 0")
}
