// Package app contains the application setup for the product catalog.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/product/handler"
	"github.com/abgdnv/catalog/internal/product/metrics"
	"github.com/abgdnv/catalog/internal/product/service"
	"github.com/abgdnv/catalog/internal/product/store"
)

type Dependencies struct {
	ProductService service.ProductService
	Metrics        *metrics.Collector
	Logger         *slog.Logger
}

// SetupDependencies opens the product file and builds the instrumented service on top of it.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	perm, err := cfg.Store.FileMode()
	if err != nil {
		return nil, err
	}
	fileStore, err := store.NewFileStore(ctx, cfg.Store.Path, perm, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open product store: %w", err)
	}

	collector := metrics.NewCollector()
	existing, err := fileStore.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	collector.SetProducts(len(existing))

	return &Dependencies{
		ProductService: metrics.WrapService(service.NewService(fileStore, logger), collector),
		Metrics:        collector,
		Logger:         logger,
	}, nil
}

// SetupHandler creates the command handler for the application.
func SetupHandler(deps *Dependencies) *handler.Handler {
	return handler.NewHandler(deps.ProductService, deps.Logger)
}
