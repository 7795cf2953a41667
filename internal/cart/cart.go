// Package cart implements the cart aggregation engine: a mapping from
// product id to a quantity-bearing line, with stock and quantity bounds
// enforced on every mutation and totals recomputed fresh on every read.
package cart

import (
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Line pairs a product snapshot with a quantity. The snapshot is copied at
// add time and is not updated if the source catalog later changes; the
// quantity invariant 1 <= Quantity <= Product.Stock is checked against that
// snapshot.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int32           `json:"quantity"`
}

// Cart holds the accumulated lines. Storage is keyed by product id; display
// order is the insertion order of each product's first add, kept stable
// across quantity updates. Cart is not safe for concurrent use; its owner
// serializes mutations.
type Cart struct {
	lines map[string]*Line
	order []string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// Add puts one unit of the product into the cart. A product with no stock
// never enters the cart. A first add creates a line with quantity 1,
// snapshotting the product at this instant; further adds increment by 1 up
// to the snapshotted stock, beyond which Add is a silent no-op. All of these
// outcomes leave the cart consistent; none of them is an error.
func (c *Cart) Add(p catalog.Product) {
	if p.Stock <= 0 {
		return
	}
	if line, ok := c.lines[p.ID]; ok {
		if line.Quantity >= line.Product.Stock {
			return
		}
		line.Quantity++
		return
	}
	c.lines[p.ID] = &Line{Product: p, Quantity: 1}
	c.order = append(c.order, p.ID)
}

// Remove deletes the line for the given product id. Removing an absent id is
// a no-op.
func (c *Cart) Remove(productID string) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// SetQuantity sets the line's quantity to exactly q. Values below 1 are
// rejected: a line leaves the cart only through Remove, never by decrementing
// to zero. Values above the snapshotted stock are rejected as well. Both
// rejections, and a missing line, leave the cart unchanged.
func (c *Cart) SetQuantity(productID string, q int32) {
	if q < 1 {
		return
	}
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if q > line.Product.Stock {
		return
	}
	line.Quantity = q
}

// Line returns the line for the given product id, if present.
func (c *Cart) Line(productID string) (Line, bool) {
	line, ok := c.lines[productID]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Lines returns the cart's lines in insertion order of first add.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

// Len returns the number of distinct lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// TotalItems returns the sum of quantities across all lines, recomputed on
// every call.
func (c *Cart) TotalItems() int32 {
	var total int32
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity across all lines at
// full precision, recomputed on every call so the total can never drift from
// the lines. Rounding to two decimals is the caller's display concern.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}
	return total
}
