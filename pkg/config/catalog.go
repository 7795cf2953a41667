package config

import (
	"fmt"
	"strings"
	"time"
)

// Catalog source kinds.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// CatalogConfig selects where the product catalog is loaded from at startup.
type CatalogConfig struct {
	Source  string        `koanf:"source"`
	URL     string        `koanf:"url"`
	Path    string        `koanf:"path"`
	DbURL   string        `koanf:"dbUrl"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *CatalogConfig) Validate() error {
	switch c.Source {
	case SourceHTTP:
		if c.URL == "" {
			return fmt.Errorf("catalog source is http but url is not configured")
		}
	case SourceFile:
		if c.Path == "" {
			return fmt.Errorf("catalog source is file but path is not configured")
		}
	case SourcePostgres:
		if c.DbURL == "" {
			return fmt.Errorf("catalog source is postgres but dbUrl is not configured")
		}
		if !strings.HasPrefix(c.DbURL, "postgres://") && !strings.HasPrefix(c.DbURL, "postgresql://") {
			return fmt.Errorf("catalog dbUrl must start with 'postgres://': %s", c.DbURL)
		}
	default:
		return fmt.Errorf("unknown catalog source: %q", c.Source)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("catalog load timeout is not configured")
	}
	return nil
}
