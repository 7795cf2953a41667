// Package cli provides the Cobra-based CLI for the storefront service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	_ "net/http/pprof"

	"github.com/abgdnv/storefront/internal/app"
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/internal/catalog/loader"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/pkg/bootstrap"
	"github.com/abgdnv/storefront/pkg/config/configloader"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const serviceName = "storefront"

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Catalog browsing and cart service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the catalog and serve the storefront API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.AddCommand(serveCmd)

	checkCmd := &cobra.Command{
		Use:   "check <catalog.json>",
		Short: "Validate a catalog file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd.Context(), cmd, args[0])
		},
	}
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog utilities",
	}
	catalogCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(catalogCmd)
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// serve loads configuration and the catalog, then runs the HTTP and optional
// pprof servers until the context is cancelled.
func serve(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	source, closeSource, err := app.NewSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build catalog source: %w", err)
	}
	products := app.LoadCatalog(ctx, source, cfg, logger)
	closeSource()

	deps := app.SetupDependencies(products, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{Addr: cfg.PProf.Addr}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// check validates a catalog file and prints what a storefront would see:
// product and category counts and the category list.
func check(ctx context.Context, cmd *cobra.Command, path string) error {
	products, err := loader.NewFileSource(path).Load(ctx)
	if err != nil {
		return err
	}
	categories := catalog.Categories(products)
	cmd.Printf("catalog OK: %d products, %d categories\n", len(products), len(categories))
	for _, c := range categories {
		count := len(catalog.Project(products, catalog.Criteria{Category: c}))
		cmd.Printf("  %-20s %d\n", c, count)
	}
	return nil
}
