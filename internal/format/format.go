// Package format renders numbers and dates the way Indonesian users read
// them (id-ID locale).
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Location is used to display backend timestamps. The backend runs in WIB.
var Location = time.FixedZone("WIB", 7*60*60)

var printer = message.NewPrinter(language.Indonesian)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Number groups thousands with dots: 1234567 -> "1.234.567".
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Currency renders "Rp 1.234.567". The fraction is dropped.
func Currency(amount float64) string {
	return "Rp " + Number(int64(amount))
}

// ParseTime accepts the date shapes the backend produces.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return t.In(Location), true
		}
	}
	return time.Time{}, false
}

// Date renders dd/mm/yyyy, "-" for an empty value. Unparseable input is
// returned unchanged.
func Date(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006")
}

// DateTime renders dd/mm/yyyy HH.MM.
func DateTime(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006 15.04")
}

// ISODate is the yyyy-mm-dd form used in filenames and backend filters.
func ISODate(t time.Time) string {
	return t.In(Location).Format("2006-01-02")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
