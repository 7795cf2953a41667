// Package loader supplies the catalog to the storefront core as a single
// completed batch. Sources own validation and normalization of upstream
// records: the core is never handed a malformed product. A failed load means
// the storefront starts with an empty catalog; surfacing that failure is the
// caller's job.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

var (
	ErrMalformedRecord = errors.New("malformed catalog record")
	ErrDuplicateID     = errors.New("duplicate product id")
)

// Source delivers the full catalog once. Implementations return only
// well-formed products with unique ids, in a stable catalog order.
type Source interface {
	Load(ctx context.Context) ([]catalog.Product, error)
}

// flexID accepts both JSON numbers and JSON strings as product ids. Upstream
// APIs disagree on id types (the original store API uses numbers), so ids
// are normalized to strings on decode.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// record is the wire form of one catalog entry.
type record struct {
	ID       flexID          `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Stock    int32           `json:"stock"`
}

// toProducts validates and converts raw records into catalog products. The
// whole batch is rejected on the first malformed record: a partially valid
// upstream catalog is treated as a fetch failure, not silently truncated.
func toProducts(records []record) ([]catalog.Product, error) {
	products := make([]catalog.Product, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		id := string(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("record %d: missing id: %w", i, ErrMalformedRecord)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("record %d: id %s: %w", i, id, ErrDuplicateID)
		}
		if rec.Title == "" {
			return nil, fmt.Errorf("record %d (id %s): missing title: %w", i, id, ErrMalformedRecord)
		}
		if rec.Price.IsNegative() {
			return nil, fmt.Errorf("record %d (id %s): negative price: %w", i, id, ErrMalformedRecord)
		}
		if rec.Stock < 0 {
			return nil, fmt.Errorf("record %d (id %s): negative stock: %w", i, id, ErrMalformedRecord)
		}
		seen[id] = struct{}{}
		products = append(products, catalog.Product{
			ID:       id,
			Title:    rec.Title,
			Category: rec.Category,
			Price:    rec.Price,
			Image:    rec.Image,
			Stock:    rec.Stock,
		})
	}
	return products, nil
}
