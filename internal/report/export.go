package report

import (
	"bytes"
	"errors"
	"time"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/format"
	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/metrics"
)

const (
	FormatXLSX          = "xlsx"
	FormatXLSXKabupaten = "xlsx-kabupaten"
	FormatXLSXSekolah   = "xlsx-sekolah"
	FormatXLSXSummary   = "xlsx-summary"
	FormatPDF           = "pdf"
	FormatCSV           = "csv"
)

var ErrUnknownFormat = errors.New("format ekspor tidak dikenal")

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

type File struct {
	Name        string
	ContentType string
	Body        []byte
}

type exporter struct {
	prefix      string
	ext         string
	contentType string
	render      func(r *Report, buf *bytes.Buffer) error
}

var exporters = map[string]exporter{
	FormatXLSX:          {"Laporan_Pemesanan", "xlsx", contentTypeXLSX, writeXLSX},
	FormatXLSXKabupaten: {"Laporan_Per_Kabupaten", "xlsx", contentTypeXLSX, writeXLSXByKabupaten},
	FormatXLSXSekolah:   {"Laporan_Per_Sekolah", "xlsx", contentTypeXLSX, writeXLSXBySekolah},
	FormatXLSXSummary:   {"Ringkasan_Pemesanan", "xlsx", contentTypeXLSX, writeXLSXSummary},
	FormatPDF:           {"Laporan_Pemesanan", "pdf", contentTypePDF, writePDF},
	FormatCSV:           {"Laporan_Pemesanan", "csv", contentTypeCSV, writeCSV},
}

func Formats() []string {
	return []string{FormatXLSX, FormatXLSXKabupaten, FormatXLSXSekolah, FormatXLSXSummary, FormatPDF, FormatCSV}
}

// Export renders the report. An empty report is refused.
func (r *Report) Export(formatName string) (*File, error) {
	e, ok := exporters[formatName]
	if !ok {
		return nil, ErrUnknownFormat
	}
	if len(r.Rows) == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	if err := e.render(r, &buf); err != nil {
		return nil, err
	}
	metrics.Exports.WithLabelValues(formatName).Inc()
	return &File{
		Name:        Filename(e.prefix, e.ext, r.PrintedAt),
		ContentType: e.contentType,
		Body:        buf.Bytes(),
	}, nil
}

func Filename(prefix, ext string, at time.Time) string {
	return prefix + "_" + format.ISODate(at) + "." + ext
}
