package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abgdnv/storefront/internal/catalog"
)

// HTTPSource fetches the catalog from an upstream store API serving a JSON
// product array.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for the given URL. The timeout bounds the
// whole fetch, headers to body.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches and validates the catalog.
func (s *HTTPSource) Load(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog from %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch from %s returned status %d", s.url, resp.StatusCode)
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return toProducts(records)
}
