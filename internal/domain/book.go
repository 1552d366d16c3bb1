package domain

import (
	"sort"
	"strings"
)

// Jenjang is the school level. It selects the price tier of a book.
type Jenjang string

const (
	JenjangSD  Jenjang = "SD"
	JenjangSMP Jenjang = "SMP"
	JenjangSMA Jenjang = "SMA"
)

var jenjangMarkers = map[Jenjang][]string{
	JenjangSD:  {"SD", "MI"},
	JenjangSMP: {"SMP", "MTs"},
	JenjangSMA: {"SMA", "SMK", "MA"},
}

func (j Jenjang) Valid() bool {
	_, ok := jenjangMarkers[j]
	return ok
}

// Matches reports whether a book title belongs to the level. Titles carry
// the level marker, e.g. "Akidah Akhlak MTs Kelas 7".
func (j Jenjang) Matches(judul string) bool {
	for _, marker := range jenjangMarkers[j] {
		if strings.Contains(judul, marker) {
			return true
		}
	}
	return false
}

type Book struct {
	Jenis    string `json:"jenis"`
	Kategori string `json:"kategori"`
	Judul    string `json:"judul"`
	Kelas    Text   `json:"kelas"`
	HargaSD  Number `json:"hargaSD"`
	HargaSMP Number `json:"hargaSMP"`
	HargaSMA Number `json:"hargaSMA"`
}

// BookKey identifies a cart line. Two books with the same jenis and kelas
// share a line.
type BookKey struct {
	Jenis string `json:"jenis"`
	Kelas string `json:"kelas"`
}

func (b Book) Key() BookKey {
	return BookKey{Jenis: b.Jenis, Kelas: b.Kelas.String()}
}

// PriceFor returns the unit price for the level, 0 for an unknown level.
func (b Book) PriceFor(j Jenjang) int64 {
	switch j {
	case JenjangSD:
		return b.HargaSD.Int()
	case JenjangSMP:
		return b.HargaSMP.Int()
	case JenjangSMA:
		return b.HargaSMA.Int()
	}
	return 0
}

type MasterData struct {
	KabupatenList []string `json:"kabupatenList"`
	BukuIsmuba    []Book   `json:"bukuIsmuba"`
	BukuMipa      []Book   `json:"bukuMipa"`
}

func (m *MasterData) AllBooks() []Book {
	books := make([]Book, 0, len(m.BukuIsmuba)+len(m.BukuMipa))
	books = append(books, m.BukuIsmuba...)
	return append(books, m.BukuMipa...)
}

func (m *MasterData) FindBook(key BookKey) (Book, bool) {
	for _, b := range m.AllBooks() {
		if b.Key() == key {
			return b, true
		}
	}
	return Book{}, false
}

// Kabupaten returns a sorted copy of the region list.
func (m *MasterData) Kabupaten() []string {
	out := append([]string(nil), m.KabupatenList...)
	sort.Strings(out)
	return out
}
