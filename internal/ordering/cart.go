package ordering

import "github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"

type CartItem struct {
	Jenis    string `json:"jenis"`
	Kategori string `json:"kategori"`
	Judul    string `json:"judul"`
	Kelas    string `json:"kelas"`
	Harga    int64  `json:"harga"`
	Jumlah   int    `json:"jumlah"`
}

func (i CartItem) Key() domain.BookKey {
	return domain.BookKey{Jenis: i.Jenis, Kelas: i.Kelas}
}

func (i CartItem) Subtotal() int64 {
	return i.Harga * int64(i.Jumlah)
}

// Cart holds one line per (jenis, kelas). Lines keep insertion order.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add puts the book in the cart at the level's price, or bumps the existing
// line by one.
func (c *Cart) Add(b domain.Book, j domain.Jenjang) {
	if i := c.index(b.Key()); i >= 0 {
		c.Items[i].Jumlah++
		return
	}
	c.Items = append(c.Items, CartItem{
		Jenis:    b.Jenis,
		Kategori: b.Kategori,
		Judul:    b.Judul,
		Kelas:    b.Kelas.String(),
		Harga:    b.PriceFor(j),
		Jumlah:   1,
	})
}

// SetQuantity returns false when the key is not in the cart. A quantity
// below one removes the line.
func (c *Cart) SetQuantity(key domain.BookKey, n int) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	if n < 1 {
		c.removeAt(i)
		return true
	}
	c.Items[i].Jumlah = n
	return true
}

func (c *Cart) Increase(key domain.BookKey) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.Items[i].Jumlah++
	return true
}

func (c *Cart) Decrease(key domain.BookKey) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	if c.Items[i].Jumlah > 1 {
		c.Items[i].Jumlah--
	} else {
		c.removeAt(i)
	}
	return true
}

func (c *Cart) Remove(key domain.BookKey) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *Cart) Quantity(key domain.BookKey) int {
	if i := c.index(key); i >= 0 {
		return c.Items[i].Jumlah
	}
	return 0
}

func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}

func (c *Cart) TotalBooks() int {
	n := 0
	for _, it := range c.Items {
		n += it.Jumlah
	}
	return n
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) index(key domain.BookKey) int {
	for i, it := range c.Items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}
