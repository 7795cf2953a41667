// Package catalog defines the product catalog types and the projection
// engine that derives the visible product list from filter and sort criteria.
package catalog

import "github.com/shopspring/decimal"

// Product is an immutable snapshot of a catalog entry. Products are created
// once by the catalog loader and never mutated afterwards; IDs are unique
// within a loaded catalog.
type Product struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Stock    int32           `json:"stock"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}
