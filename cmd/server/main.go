package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/cs2-craftcalc/internal/api"
	"github.com/mswatii/cs2-craftcalc/internal/config"
	"github.com/mswatii/cs2-craftcalc/internal/logger"
	"github.com/mswatii/cs2-craftcalc/internal/models"
	"github.com/mswatii/cs2-craftcalc/internal/service"
)

func main() {
	// Load environment variables from .env file
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := service.Build(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if cfg.RefreshOnStart {
		// Run the refresh in a goroutine so it doesn't block server startup
		go refreshAll(ctx, svc)
	} else {
		slog.Info("Skipping initial price refresh (REFRESH_ON_START is not true)")
	}

	handler := api.NewHandler(svc)
	server := &fasthttp.Server{
		Handler:      handler.HandleRequest,
		Name:         "cs2-craftcalc",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		if err := server.ShutdownWithContext(context.Background()); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Starting server", "addr", addr)
	if err := server.ListenAndServe(addr); err != nil {
		slog.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}

func refreshAll(ctx context.Context, svc *service.Service) {
	ctx = logger.WithRequestID(ctx, "startup-"+logger.GenerateRequestID())
	log := logger.FromContext(ctx)
	log.Info("Starting initial price refresh")
	for _, line := range svc.Catalog().Lines() {
		for _, c := range []models.Category{models.CategoryPrimary, models.CategoryWeapons} {
			report, err := svc.RefreshAll(ctx, line.ID, c, nil, nil)
			if err != nil {
				log.Error("Initial refresh failed", "line", line.ID, "category", c, "error", err)
				continue
			}
			log.Info("Initial refresh done", "line", line.ID, "category", c, "updated", report.Updated)
		}
	}
}
