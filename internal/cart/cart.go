// Package cart keeps the storefront shopping cart. A Store is owned by
// whoever composes the application; every mutation rewrites the whole cart
// under StorageKey.
package cart

import (
	"encoding/json"
	"log"
	"slices"

	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/shopspring/decimal"
)

// StorageKey is where the serialized cart lives
const StorageKey = "fashion-cart"

// Item is one cart line. Product is a snapshot taken when the line was
// added.
type Item struct {
	Product       readmodel.Product `json:"product"`
	Quantity      int               `json:"quantity"`
	SelectedSize  string            `json:"selectedSize,omitempty"`
	SelectedColor *readmodel.Color  `json:"selectedColor,omitempty"`
}

// Subtotal is unit price times quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) sameLine(productID, size string, color *readmodel.Color) bool {
	return i.Product.ID == productID && i.SelectedSize == size && colorHex(i.SelectedColor) == colorHex(color)
}

func colorHex(c *readmodel.Color) string {
	if c == nil {
		return ""
	}
	return c.Hex
}

type Store struct {
	storage Storage
	items   []Item
}

// Open restores the cart from storage. Missing or unreadable data gives an
// empty cart; the problem is logged, not returned.
func Open(storage Storage) *Store {
	s := &Store{storage: storage, items: []Item{}}

	raw, ok, err := storage.GetItem(StorageKey)
	if err != nil {
		log.Printf("[Cart] Error loading cart: %v", err)
		return s
	}
	if !ok {
		return s
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[Cart] Discarding unreadable cart: %v", err)
		return s
	}
	if items != nil {
		s.items = items
	}
	return s
}

// Items returns a copy of the cart lines in order
func (s *Store) Items() []Item {
	return slices.Clone(s.items)
}

// AddToCart merges into the line with the same product, size and color, or
// appends a new line. Stock is not checked here.
func (s *Store) AddToCart(product *readmodel.Product, quantity int, size string, color *readmodel.Color) {
	if product == nil || quantity < 1 {
		return
	}

	for i := range s.items {
		if s.items[i].sameLine(product.ID, size, color) {
			s.items[i].Quantity += quantity
			s.persist()
			return
		}
	}

	item := Item{Product: *product, Quantity: quantity, SelectedSize: size}
	if color != nil {
		c := *color
		item.SelectedColor = &c
	}
	s.items = append(s.items, item)
	s.persist()
}

// RemoveFromCart deletes the line at index; out-of-range indexes are ignored
func (s *Store) RemoveFromCart(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items = slices.Delete(s.items, index, index+1)
	s.persist()
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *Store) UpdateQuantity(index, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(index)
		return
	}
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items[index].Quantity = quantity
	s.persist()
}

func (s *Store) ClearCart() {
	s.items = []Item{}
	s.persist()
}

// Total is the sum of every line subtotal
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of line quantities
func (s *Store) ItemCount() int {
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("[Cart] Error encoding cart: %v", err)
		return
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		log.Printf("[Cart] Error saving cart: %v", err)
	}
}
