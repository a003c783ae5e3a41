package services

import (
	"github.com/shopspring/decimal"

	"menu-bot/models"
)

// CartItem is one cart entry. Quantity is always >= 1.
type CartItem struct {
	Item     models.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity, unrounded.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Item.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is a per-session selection of menu items. It keeps at most one entry
// per item id, in the order items were first added. Not safe for concurrent use.
type Cart struct {
	items []CartItem
	index map[string]int // item id -> position in items
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// AddItem increments the entry for item.ID, or appends a new one with quantity 1.
func (c *Cart) AddItem(item models.MenuItem) {
	if i, ok := c.index[item.ID]; ok {
		c.items[i].Quantity++
		return
	}
	c.index[item.ID] = len(c.items)
	c.items = append(c.items, CartItem{Item: item.Clone(), Quantity: 1})
}

// RemoveItem deletes the entry for itemID. Unknown ids are ignored.
func (c *Cart) RemoveItem(itemID string) {
	i, ok := c.index[itemID]
	if !ok {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex()
}

// UpdateQuantity adds delta to the entry's quantity, never going below 1.
// Dropping an entry needs RemoveItem. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, delta int) {
	i, ok := c.index[itemID]
	if !ok {
		return
	}
	c.items[i].Quantity = max(1, c.items[i].Quantity+delta)
}

// Quantity returns the quantity held for itemID, or 0.
func (c *Cart) Quantity(itemID string) int {
	if i, ok := c.index[itemID]; ok {
		return c.items[i].Quantity
	}
	return 0
}

// Total sums price × quantity over all entries. The result is exact; round
// only when displaying it.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ci := range c.items {
		total = total.Add(ci.Subtotal())
	}
	return total
}

// ItemCount sums quantities (not entries).
func (c *Cart) ItemCount() int {
	n := 0
	for _, ci := range c.items {
		n += ci.Quantity
	}
	return n
}

// Len is the number of distinct entries.
func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	for i, ci := range c.items {
		out[i] = CartItem{Item: ci.Item.Clone(), Quantity: ci.Quantity}
	}
	return out
}

// Resolve refreshes every entry from lookup and drops entries whose item no
// longer exists, so orders carry current names and prices.
func (c *Cart) Resolve(lookup func(id string) (models.MenuItem, bool)) {
	kept := c.items[:0]
	for _, ci := range c.items {
		item, ok := lookup(ci.Item.ID)
		if !ok {
			continue
		}
		kept = append(kept, CartItem{Item: item.Clone(), Quantity: ci.Quantity})
	}
	c.items = kept
	c.reindex()
}

func (c *Cart) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, ci := range c.items {
		c.index[ci.Item.ID] = i
	}
}
