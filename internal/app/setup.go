// Package app contains the application setup for the storefront service.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/internal/catalog/loader"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/shop"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/abgdnv/storefront/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Registry *shop.Registry
	Logger   *slog.Logger
}

// NewSource builds the configured catalog source. The postgres source owns
// its pool only for the duration of the single load; the returned cleanup
// closes it.
func NewSource(ctx context.Context, cfg *config.Config) (loader.Source, func(), error) {
	switch cfg.Catalog.Source {
	case pkgconfig.SourceHTTP:
		return loader.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.Timeout), func() {}, nil
	case pkgconfig.SourceFile:
		return loader.NewFileSource(cfg.Catalog.Path), func() {}, nil
	default:
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Catalog.DbURL, cfg.Catalog.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return loader.NewPgSource(dbPool), dbPool.Close, nil
	}
}

// LoadCatalog performs the single catalog load. A failed load is not fatal:
// the storefront starts with an empty catalog and the failure is logged,
// which is the loader's side of the fetch-failure contract.
func LoadCatalog(ctx context.Context, source loader.Source, cfg *config.Config, logger *slog.Logger) []catalog.Product {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
	defer cancel()

	products, err := source.Load(loadCtx)
	if err != nil {
		logger.Error("Catalog load failed, starting with empty catalog", "error", err)
		return nil
	}
	logger.Info("Catalog loaded", "products", len(products), "categories", len(catalog.Categories(products)))
	return products
}

// SetupDependencies wires the session registry over the loaded catalog.
func SetupDependencies(products []catalog.Product, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		Registry: shop.NewRegistry(products),
		Logger:   logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the storefront.
// Also used by handler tests to build the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	storefrontHandler := rest.NewHandler(deps.Registry, deps.Logger)
	storefrontHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the storefront HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
