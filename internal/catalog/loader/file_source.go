package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/abgdnv/storefront/internal/catalog"
)

// FileSource reads the catalog from a JSON file on disk. Used for demo
// catalogs and by the `catalog check` command.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the given file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and validates the catalog file.
func (s *FileSource) Load(_ context.Context) ([]catalog.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", s.path, err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", s.path, err)
	}
	return toProducts(records)
}
