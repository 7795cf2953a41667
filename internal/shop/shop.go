// Package shop owns the mutable storefront state for one session: the loaded
// catalog, the active view criteria and the cart. All mutations go through
// Shop methods under a single lock, so one user action fully completes,
// including derived recomputation, before the next is accepted.
package shop

import (
	"sync"

	"github.com/abgdnv/storefront/internal/cart"
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Shop is the owning aggregate for one browsing session. The catalog slice
// is shared read-only across sessions; criteria and cart are per-session.
type Shop struct {
	mu       sync.Mutex
	catalog  []catalog.Product
	criteria catalog.Criteria
	cart     *cart.Cart
}

// New creates a session over the given catalog with no active filters and an
// empty cart. The catalog slice must not be mutated after being handed over.
func New(products []catalog.Product) *Shop {
	return &Shop{
		catalog:  products,
		criteria: catalog.Criteria{Sort: catalog.SortNone},
		cart:     cart.New(),
	}
}

// SetSearchTerm narrows the projection to titles containing term.
func (s *Shop) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.SearchTerm = term
}

// SetCategory narrows the projection to the given category; an empty string
// removes the category filter.
func (s *Shop) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Category = category
}

// SetSortOrder sets the price ordering of the projection.
func (s *Shop) SetSortOrder(order catalog.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Sort = order
}

// ClearFilters resets search term, category and sort order in one step. The
// reset is atomic: no projection can observe a half-reset criteria.
func (s *Shop) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = catalog.Criteria{Sort: catalog.SortNone}
}

// Criteria returns the active view criteria.
func (s *Shop) Criteria() catalog.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Products recomputes the projection from the catalog and the active
// criteria. There is no memoization: identical inputs always yield identical
// results, so recomputing on every read is correct by construction.
func (s *Shop) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Project(s.catalog, s.criteria)
}

// Categories returns the distinct categories of the full catalog,
// independent of the active filters.
func (s *Shop) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Categories(s.catalog)
}

// AddToCart resolves the product id against the loaded catalog and adds one
// unit to the cart. The active filter has no bearing here: any catalog
// product can be added whether or not it is currently visible. Returns
// ErrProductNotFound if the id is not in the catalog; an out-of-stock
// product is a defined no-op, not an error.
func (s *Shop) AddToCart(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.catalog {
		if p.ID == productID {
			s.cart.Add(p)
			return nil
		}
	}
	return ErrProductNotFound
}

// RemoveFromCart deletes the cart line for the product id, if any.
func (s *Shop) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
}

// SetQuantity sets the cart line's quantity, subject to the cart's bounds.
func (s *Shop) SetQuantity(productID string, quantity int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(productID, quantity)
}

// CartLines returns the cart's lines in insertion order.
func (s *Shop) CartLines() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// TotalItems returns the sum of quantities across all cart lines.
func (s *Shop) TotalItems() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

// TotalPrice returns the cart total at full precision.
func (s *Shop) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}
