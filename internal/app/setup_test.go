package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/internal/config"
	pkgconfig "github.com/abgdnv/storefront/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource is a mock implementation of the loader.Source interface
type mockSource struct {
	products []catalog.Product
	error    error
}

func (m *mockSource) Load(_ context.Context) ([]catalog.Product, error) {
	return m.products, m.error
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog = pkgconfig.CatalogConfig{Source: pkgconfig.SourceFile, Path: "catalog.json", Timeout: time.Second}
	return cfg
}

func Test_LoadCatalog(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := []catalog.Product{
		{ID: "1", Title: "Red Shirt", Category: "apparel", Price: decimal.NewFromInt(20), Stock: 3},
	}

	testCases := []struct {
		name     string
		source   *mockSource
		expected []catalog.Product
	}{
		{
			name:     "successful load hands the batch to the core",
			source:   &mockSource{products: products},
			expected: products,
		},
		{
			name:     "failed load yields an empty catalog, not a crash",
			source:   &mockSource{error: errors.New("upstream unreachable")},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cfg := testConfig()
			// when
			loaded := LoadCatalog(context.Background(), tc.source, cfg, logger)
			// then
			assert.Equal(t, tc.expected, loaded)
		})
	}
}

func Test_SetupDependencies(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps := SetupDependencies(nil, logger)

	require.NotNil(t, deps.Registry)
	// an empty catalog still serves sessions; every projection is empty
	id := deps.Registry.Create()
	s, err := deps.Registry.Get(id)
	require.NoError(t, err)
	assert.Empty(t, s.Products())
	assert.Empty(t, s.Categories())
}
