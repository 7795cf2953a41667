package shop

import (
	"testing"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Title: "Red Shirt", Category: "apparel", Price: decimal.NewFromInt(20), Stock: 3},
		{ID: "2", Title: "Blue Mug", Category: "home", Price: decimal.NewFromInt(8), Stock: 0},
	}
}

// The documented end-to-end scenario: add a stocked product twice, attempt a
// stock-out product, filter, then clear all filters.
func Test_Shop_EndToEnd(t *testing.T) {
	// given
	s := New(storeCatalog())

	// when the shirt is added twice
	require.NoError(t, s.AddToCart("1"))
	require.NoError(t, s.AddToCart("1"))

	// then the cart has a single line at quantity 2
	lines := s.CartLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Product.ID)
	assert.Equal(t, int32(2), lines[0].Quantity)
	assert.Equal(t, int32(2), s.TotalItems())
	assert.Equal(t, "40.00", s.TotalPrice().StringFixed(2))

	// when the stock-out mug is added
	require.NoError(t, s.AddToCart("2"))

	// then the cart is unchanged
	assert.Equal(t, lines, s.CartLines())

	// the mug is still listed: stock affects cart-ability, not visibility
	s.SetSearchTerm("mug")
	projected := s.Products()
	require.Len(t, projected, 1)
	assert.Equal(t, "2", projected[0].ID)

	// clearing filters restores the full catalog in catalog order
	s.ClearFilters()
	assert.Equal(t, storeCatalog(), s.Products())
}

func Test_Shop_AddToCart_UnknownProduct(t *testing.T) {
	s := New(storeCatalog())

	err := s.AddToCart("42")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, s.CartLines())
}

func Test_Shop_CartIsIndependentOfFilters(t *testing.T) {
	// given a filter that hides the shirt
	s := New(storeCatalog())
	s.SetCategory("home")
	require.Empty(t, filterIDs(s.Products(), "1"))

	// when the hidden shirt is added
	require.NoError(t, s.AddToCart("1"))

	// then it lands in the cart anyway
	lines := s.CartLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Product.ID)
}

func Test_Shop_CriteriaOps(t *testing.T) {
	// given
	s := New(storeCatalog())

	// when all three criteria are set
	s.SetSearchTerm("shirt")
	s.SetCategory("apparel")
	s.SetSortOrder(catalog.SortPriceDesc)

	// then they are all active
	c := s.Criteria()
	assert.Equal(t, "shirt", c.SearchTerm)
	assert.Equal(t, "apparel", c.Category)
	assert.Equal(t, catalog.SortPriceDesc, c.Sort)

	// when filters are cleared
	s.ClearFilters()

	// then the reset is compound: all three criteria at once
	assert.True(t, s.Criteria().IsZero())
}

func Test_Shop_ProjectionRecomputesPerRead(t *testing.T) {
	// given
	s := New(storeCatalog())

	// identical criteria always yield identical projections
	s.SetSortOrder(catalog.SortPriceAsc)
	first := s.Products()
	second := s.Products()
	assert.Equal(t, first, second)

	// and a criteria change is reflected on the very next read
	s.SetSortOrder(catalog.SortPriceDesc)
	assert.NotEqual(t, first, s.Products())
}

func Test_Shop_Categories(t *testing.T) {
	s := New(storeCatalog())

	// categories come from the full catalog even while a filter is active
	s.SetSearchTerm("shirt")

	assert.Equal(t, []string{"apparel", "home"}, s.Categories())
}

func filterIDs(products []catalog.Product, id string) []catalog.Product {
	matched := make([]catalog.Product, 0)
	for _, p := range products {
		if p.ID == id {
			matched = append(matched, p)
		}
	}
	return matched
}
