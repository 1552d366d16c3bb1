package ordering

import (
	"sort"
	"strings"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

type BookFilter struct {
	Jenjang  domain.Jenjang
	Jenis    string
	Kategori string
	Search   string
}

// FilterBooks keeps books of the filter's level. Empty optional fields match
// everything.
func FilterBooks(books []domain.Book, f BookFilter) []domain.Book {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if !f.Jenjang.Matches(b.Judul) {
			continue
		}
		if f.Jenis != "" && b.Jenis != f.Jenis {
			continue
		}
		if f.Kategori != "" && b.Kategori != f.Kategori {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Judul), search) &&
			!strings.Contains(strings.ToLower(b.Kategori), search) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func Categories(books []domain.Book, j domain.Jenjang) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range books {
		if b.Kategori == "" || !j.Matches(b.Judul) {
			continue
		}
		if _, ok := seen[b.Kategori]; ok {
			continue
		}
		seen[b.Kategori] = struct{}{}
		out = append(out, b.Kategori)
	}
	sort.Strings(out)
	return out
}

// BookCard is a catalog entry as shown on the book selection step.
type BookCard struct {
	domain.Book
	Harga  int64 `json:"harga"`
	InCart int   `json:"inCart"`
}

func Cards(books []domain.Book, j domain.Jenjang, cart *Cart) []BookCard {
	cards := make([]BookCard, len(books))
	for i, b := range books {
		cards[i] = BookCard{Book: b, Harga: b.PriceFor(j), InCart: cart.Quantity(b.Key())}
	}
	return cards
}
