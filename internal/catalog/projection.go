package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder selects the price ordering applied to the projected list.
type SortOrder string

const (
	SortNone      SortOrder = "none"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSortOrder converts a wire value into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortNone, SortPriceAsc, SortPriceDesc:
		return SortOrder(s), nil
	}
	return SortNone, fmt.Errorf("unknown sort order %q", s)
}

// Criteria describes how the catalog is narrowed and ordered for display.
// The zero value selects the whole catalog in its original order.
type Criteria struct {
	SearchTerm string
	Category   string
	Sort       SortOrder
}

// IsZero reports whether no filter or sort is active.
func (c Criteria) IsZero() bool {
	return c.SearchTerm == "" && c.Category == "" && (c.Sort == "" || c.Sort == SortNone)
}

// Project derives the ordered list of products to display. Stages apply in a
// fixed order: title search (case-insensitive substring), exact category
// match, then a stable sort by price. With zero criteria the result is the
// catalog itself in catalog order. Project never mutates its input and is
// safe to call concurrently.
func Project(catalog []Product, c Criteria) []Product {
	projected := make([]Product, 0, len(catalog))

	term := strings.ToLower(c.SearchTerm)
	for _, p := range catalog {
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		projected = append(projected, p)
	}

	switch c.Sort {
	case SortPriceAsc:
		sort.SliceStable(projected, func(i, j int) bool {
			return projected[i].Price.LessThan(projected[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(projected, func(i, j int) bool {
			return projected[i].Price.GreaterThan(projected[j].Price)
		})
	}

	return projected
}

// Categories returns the distinct category values of the full catalog in
// first-occurrence order. The selector is always populated from the full
// catalog, not the projected subset.
func Categories(catalog []Product) []string {
	seen := make(map[string]struct{}, len(catalog))
	categories := make([]string, 0, len(catalog))
	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
