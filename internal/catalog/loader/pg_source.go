package loader

import (
	"context"
	"fmt"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgSource reads the catalog from a PostgreSQL products table. Rows are
// ordered by their ingest position: catalog order is part of the contract,
// the projection's "none" sort preserves it.
type PgSource struct {
	db *pgxpool.Pool
}

// NewPgSource creates a source over the given connection pool.
func NewPgSource(db *pgxpool.Pool) *PgSource {
	return &PgSource{db: db}
}

const selectProducts = `
SELECT id, title, category, price::text, image, stock_quantity
FROM products
ORDER BY position
`

// Load selects and validates the catalog.
func (s *PgSource) Load(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.Query(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	seen := make(map[string]struct{})
	for rows.Next() {
		var p catalog.Product
		var price string
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &price, &p.Image, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid price %q: %w", p.ID, price, ErrMalformedRecord)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("product with empty id: %w", ErrMalformedRecord)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("product id %s: %w", p.ID, ErrDuplicateID)
		}
		if p.Price.IsNegative() || p.Stock < 0 {
			return nil, fmt.Errorf("product %s: negative price or stock: %w", p.ID, ErrMalformedRecord)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}
