package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a numeric field from the backend. The backend is spreadsheet
// driven and sends numbers either as JSON numbers or as strings.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// non numeric cells count as zero
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Int truncates toward zero.
func (n Number) Int() int64 { return int64(n) }

// Text is a string field that the backend sometimes sends as a number
// (kelas, idPesanan).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(string(b))
	return nil
}

func (t Text) String() string { return string(t) }
