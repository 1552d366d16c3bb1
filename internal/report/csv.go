package report

import (
	"bytes"
	"strconv"
	"strings"
)

const utf8BOM = "\uFEFF"

// writeCSV quotes every text field and leaves numbers bare, which
// encoding/csv cannot do: it only quotes fields that need it.
func writeCSV(r *Report, buf *bytes.Buffer) error {
	buf.WriteString(utf8BOM)
	buf.WriteString(strings.Join(orderColumns, ","))
	for i, o := range r.Rows {
		fields := []string{
			strconv.Itoa(i + 1),
			quote(o.IDPesanan.String()),
			quote(rowDate(o)),
			quote(o.Kabupaten),
			quote(o.Sekolah),
			quote(o.Jenjang),
			quote(o.JenisBuku),
			quote(o.JudulBuku),
			quote(o.Kelas.String()),
			number(float64(o.Jumlah)),
			number(float64(o.HargaSatuan)),
			number(float64(o.Total)),
			quote(string(o.Status)),
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Join(fields, ","))
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
