// The api command runs the HTTP server. On startup it executes one
// consistency-maintenance pass for the development identity when running
// against the in-memory store; in production each client triggers the pass
// at app launch through POST /api/v1/maintenance.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stash-backend/infrastructure/config"
	"stash-backend/infrastructure/di"

	"go.uber.org/zap"
)

const devUserID = "local-dev-user"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if cfg.RunMaintenanceOnStart && cfg.StoreBackend == "memory" {
		runStartupMaintenance(ctx, container)
	}

	handler := container.Router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("storeBackend", cfg.StoreBackend),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

// runStartupMaintenance repairs category duplicates, drops empty misc
// buckets, and clears ephemeral image URLs before the server takes traffic.
// A failed pass is logged and retried on the next start; the prior state is
// intact because every batch commits atomically.
func runStartupMaintenance(ctx context.Context, container *di.Container) {
	report, err := container.Maintenance.DeduplicateCategories(ctx, devUserID)
	if err != nil {
		container.Logger.Error("startup deduplication failed", zap.Error(err))
		return
	}

	miscRemoved, err := container.Categories.CleanupEmptyMiscCategories(ctx, devUserID)
	if err != nil {
		container.Logger.Error("startup misc cleanup failed", zap.Error(err))
		return
	}

	urlsCleared, err := container.Content.CleanupInvalidImageURLs(ctx, devUserID)
	if err != nil {
		container.Logger.Error("startup URL cleanup failed", zap.Error(err))
		return
	}

	container.Logger.Info("startup maintenance complete",
		zap.Int("categoriesRemoved", report.CategoriesRemoved),
		zap.Int("itemsMoved", report.ItemsMoved),
		zap.Int("emptyMiscRemoved", miscRemoved),
		zap.Int("ephemeralUrlsCleared", urlsCleared),
	)
}
