package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/config"
	"github.com/mswatii/cs2-craftcalc/internal/database"
	"github.com/mswatii/cs2-craftcalc/internal/pricing"
	"github.com/mswatii/cs2-craftcalc/internal/wear"
)

// Build assembles a Service from configuration. The returned cleanup closes
// the database pool when one was opened.
func Build(ctx context.Context, cfg *config.Config) (*Service, func(), error) {
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		var err error
		if cat, err = catalog.LoadFile(cfg.CatalogFile); err != nil {
			return nil, nil, err
		}
		slog.Info("Loaded catalog overrides", "file", cfg.CatalogFile, "lines", len(cat.Lines()))
	}

	stores, err := OpenStores(cat, cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	client := pricing.NewClient(cfg.PriceAPIKey,
		pricing.WithBaseURL(cfg.PriceBaseURL),
		pricing.WithTimeout(cfg.PriceTimeout),
	)
	lookup := pricing.NewCachedLookup(client, cfg.PriceCacheSize, cfg.PriceCacheTTL)
	refresher := pricing.NewRefresher(lookup, cfg.PriceWorkers)

	cleanup := func() {}
	var history History
	if cfg.DatabaseEnabled() {
		db, err := database.NewDatabase(ctx, cfg.GetDBConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.CreateTables(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to create tables: %w", err)
		}
		history = db
		cleanup = db.Close
		slog.Info("Price history enabled", "host", cfg.DBHost, "database", cfg.DBName)
	}

	return New(wear.NewEngine(cat), stores, refresher, history), cleanup, nil
}
