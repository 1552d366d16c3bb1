package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

var catalog = []domain.Book{
	{Jenis: "ISMUBA", Kategori: "Akidah Akhlak", Judul: "Akidah Akhlak SD/MI Kelas 1", Kelas: "1", HargaSD: 20000},
	{Jenis: "ISMUBA", Kategori: "Bahasa Arab", Judul: "Bahasa Arab SMP/MTs Kelas 7", Kelas: "7", HargaSMP: 25000},
	{Jenis: "MIPA", Kategori: "Matematika", Judul: "Matematika SMA/MA Kelas 10", Kelas: "10", HargaSMA: 30000},
	{Jenis: "MIPA", Kategori: "Fisika", Judul: "Fisika SMK Kelas 11", Kelas: "11", HargaSMA: 32000},
	{Jenis: "MIPA", Kategori: "Matematika", Judul: "Matematika SD Kelas 2", Kelas: "2", HargaSD: 21000},
}

func TestFilterBooks_ByJenjang(t *testing.T) {
	got := FilterBooks(catalog, BookFilter{Jenjang: domain.JenjangSMA})
	assert.Len(t, got, 2)

	got = FilterBooks(catalog, BookFilter{Jenjang: domain.JenjangSD})
	assert.Len(t, got, 2)
}

func TestFilterBooks_OptionalFilters(t *testing.T) {
	got := FilterBooks(catalog, BookFilter{Jenjang: domain.JenjangSD, Jenis: "MIPA"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Matematika SD Kelas 2", got[0].Judul)

	got = FilterBooks(catalog, BookFilter{Jenjang: domain.JenjangSMA, Search: "fisika"})
	assert.Len(t, got, 1)

	got = FilterBooks(catalog, BookFilter{Jenjang: domain.JenjangSMA, Kategori: "Matematika"})
	assert.Len(t, got, 1)
}

func TestCategories_SortedDistinct(t *testing.T) {
	assert.Equal(t, []string{"Fisika", "Matematika"}, Categories(catalog, domain.JenjangSMA))
	assert.Equal(t, []string{"Akidah Akhlak", "Matematika"}, Categories(catalog, domain.JenjangSD))
}

func TestCards_CarryPriceAndCartQuantity(t *testing.T) {
	var c Cart
	c.Add(catalog[1], domain.JenjangSMP)
	c.Increase(catalog[1].Key())

	cards := Cards(FilterBooks(catalog, BookFilter{Jenjang: domain.JenjangSMP}), domain.JenjangSMP, &c)

	assert.Len(t, cards, 1)
	assert.Equal(t, int64(25000), cards[0].Harga)
	assert.Equal(t, 2, cards[0].InCart)
}
