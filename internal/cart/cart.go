// Package cart implements the in-memory terminal cart: ordered lines
// keyed by signature, merged on add, and the selection flow that
// collects a variation and optionals before a line is committed.
//
// The cart is not safe for concurrent use; the owning session
// serializes access.
package cart

import (
	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/pricing"
)

// Cart holds the lines of an order being assembled. Lines keep
// insertion order; identical selections (same signature) merge by
// summing quantity.
type Cart struct {
	lines []*domain.CartItem
	bySig map[string]*domain.CartItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{bySig: make(map[string]*domain.CartItem)}
}

// AddItem merges a selection into the cart. A line with the same
// signature absorbs the quantity; otherwise a new line is appended.
// Returns the affected line's signature.
func (c *Cart) AddItem(product domain.Product, variation *domain.Variation, optionals []domain.OptionalSelection, quantity int) string {
	if quantity <= 0 {
		quantity = 1
	}

	sig := domain.ItemSignature(product.ID, variation, optionals)
	if line, ok := c.bySig[sig]; ok {
		line.Quantity += quantity
		return sig
	}

	line := &domain.CartItem{
		Product:   product,
		Quantity:  quantity,
		Variation: variation,
		Optionals: optionals,
	}
	c.lines = append(c.lines, line)
	c.bySig[sig] = line
	return sig
}

// IncrementQuantity adjusts a line's quantity by delta. A line whose
// resulting quantity drops to zero or below is removed.
func (c *Cart) IncrementQuantity(signature string, delta int) error {
	line, ok := c.bySig[signature]
	if !ok {
		return domain.NotFound("cart.increment", "cart item", signature)
	}

	line.Quantity += delta
	if line.Quantity <= 0 {
		c.remove(signature)
	}
	return nil
}

// SetObservation attaches a free-text note to a line.
func (c *Cart) SetObservation(signature, text string) error {
	line, ok := c.bySig[signature]
	if !ok {
		return domain.NotFound("cart.observation", "cart item", signature)
	}
	line.Observation = text
	return nil
}

// RemoveItem deletes a line regardless of quantity.
func (c *Cart) RemoveItem(signature string) error {
	if _, ok := c.bySig[signature]; !ok {
		return domain.NotFound("cart.remove", "cart item", signature)
	}
	c.remove(signature)
	return nil
}

func (c *Cart) remove(signature string) {
	delete(c.bySig, signature)
	for i, line := range c.lines {
		if line.Signature() == signature {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
	c.bySig = make(map[string]*domain.CartItem)
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, *line)
	}
	return items
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total sums unit price times quantity over every line.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += pricing.LineTotal(*line)
	}
	return total
}

// ProductIDs returns the distinct product IDs currently in the cart,
// in insertion order. Used to key recommendation requests.
func (c *Cart) ProductIDs() []string {
	seen := make(map[string]bool, len(c.lines))
	ids := make([]string, 0, len(c.lines))
	for _, line := range c.lines {
		if seen[line.Product.ID] {
			continue
		}
		seen[line.Product.ID] = true
		ids = append(ids, line.Product.ID)
	}
	return ids
}
