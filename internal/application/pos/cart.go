package pos

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxNoteLength is the longest per-item note kept, in characters
const MaxNoteLength = 200

// Cart is the ordered list of line items being sold.
// Entries are unique by product and always hold a quantity of at least one.
type Cart struct {
	items []entity.LineItem
}

// NewCart builds a cart from stored items, dropping any with a non-positive quantity
func NewCart(items []entity.LineItem) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.Quantity < 1 || c.indexOf(it.ProductID) >= 0 {
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// Add puts one unit of the product in the cart.
// The unit price is captured on the first add and kept for later adds of the same product.
func (c *Cart) Add(product *entity.MenuItem) {
	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, entity.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
	})
}

// Decrement removes one unit; the entry disappears when it reaches zero.
// It reports whether the cart changed.
func (c *Cart) Decrement(productID uuid.UUID) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.items[i].Quantity--
	if c.items[i].Quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	return true
}

// SetNote replaces the note of an entry, truncated to MaxNoteLength characters
func (c *Cart) SetNote(productID uuid.UUID, note string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if r := []rune(note); len(r) > MaxNoteLength {
		note = string(r[:MaxNoteLength])
	}
	c.items[i].Note = note
	return true
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the entries in insertion order
func (c *Cart) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Units is the total number of units across entries
func (c *Cart) Units() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums unit price times quantity over all entries
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
