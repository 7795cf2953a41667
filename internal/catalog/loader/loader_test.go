package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_FileSource_Load(t *testing.T) {
	// given the demo catalog with numeric ids and fractional prices
	source := NewFileSource(filepath.Join("testdata", "catalog.json"))

	// when
	products, err := source.Load(context.Background())

	// then ids are normalized to strings and order is preserved
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "1", products[0].ID)
	assert.Equal(t, "Red Shirt", products[0].Title)
	assert.Equal(t, int32(3), products[0].Stock)
	assert.Equal(t, "8.50", products[1].Price.StringFixed(2))
	assert.Equal(t, int32(0), products[1].Stock)
	assert.Equal(t, "24.99", products[2].Price.StringFixed(2))
}

func Test_FileSource_MalformedCatalogs(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		expectError error
	}{
		{
			name:        "missing id",
			body:        `[{"title":"Red Shirt","price":20,"stock":3}]`,
			expectError: ErrMalformedRecord,
		},
		{
			name:        "duplicate id",
			body:        `[{"id":1,"title":"A","price":1,"stock":1},{"id":1,"title":"B","price":2,"stock":1}]`,
			expectError: ErrDuplicateID,
		},
		{
			name:        "missing title",
			body:        `[{"id":1,"price":20,"stock":3}]`,
			expectError: ErrMalformedRecord,
		},
		{
			name:        "negative price",
			body:        `[{"id":1,"title":"Red Shirt","price":-1,"stock":3}]`,
			expectError: ErrMalformedRecord,
		},
		{
			name:        "negative stock",
			body:        `[{"id":1,"title":"Red Shirt","price":20,"stock":-3}]`,
			expectError: ErrMalformedRecord,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			source := NewFileSource(writeCatalog(t, tc.body))
			// when
			products, err := source.Load(context.Background())
			// then the whole batch is rejected
			assert.ErrorIs(t, err, tc.expectError)
			assert.Nil(t, products)
		})
	}
}

func Test_FileSource_MissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))

	_, err := source.Load(context.Background())

	assert.Error(t, err)
}

func Test_HTTPSource_Load(t *testing.T) {
	// given an upstream API serving a product array, string ids included
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"a1","title":"Red Shirt","category":"apparel","price":20,"stock":3},
			{"id":"b2","title":"Blue Mug","category":"home","price":8,"stock":0}
		]`))
	}))
	defer upstream.Close()
	source := NewHTTPSource(upstream.URL, 5*time.Second)

	// when
	products, err := source.Load(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a1", products[0].ID)
	assert.Equal(t, "home", products[1].Category)
}

func Test_HTTPSource_UpstreamFailure(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "invalid payload",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"}`))
			},
		},
		{
			name: "malformed record",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":"a1","title":"Red Shirt","price":-5,"stock":3}]`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			upstream := httptest.NewServer(tc.handler)
			defer upstream.Close()
			source := NewHTTPSource(upstream.URL, 5*time.Second)
			// when
			products, err := source.Load(context.Background())
			// then
			assert.Error(t, err)
			assert.Nil(t, products)
		})
	}
}

func Test_HTTPSource_ContextCancelled(t *testing.T) {
	// given
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()
	source := NewHTTPSource(upstream.URL, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	_, err := source.Load(ctx)

	// then
	assert.Error(t, err)
}
