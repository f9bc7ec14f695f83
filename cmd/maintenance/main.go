// The maintenance command runs one consistency-maintenance pass for a user
// and exits. Operators use it to repair a store out of band, for example
// after restoring a backup.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"stash-backend/infrastructure/config"
	"stash-backend/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	userID := flag.String("user", "", "user whose store to repair (required)")
	timeout := flag.Duration("timeout", 2*time.Minute, "pass timeout")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	report, err := container.Maintenance.DeduplicateCategories(ctx, *userID)
	if err != nil {
		container.Logger.Fatal("deduplication pass failed", zap.Error(err))
	}

	miscRemoved, err := container.Categories.CleanupEmptyMiscCategories(ctx, *userID)
	if err != nil {
		container.Logger.Fatal("misc cleanup failed", zap.Error(err))
	}

	urlsCleared, err := container.Content.CleanupInvalidImageURLs(ctx, *userID)
	if err != nil {
		container.Logger.Fatal("URL cleanup failed", zap.Error(err))
	}

	container.Logger.Info("maintenance pass complete",
		zap.String("userID", *userID),
		zap.Int("categoriesRemoved", report.CategoriesRemoved),
		zap.Int("itemsMoved", report.ItemsMoved),
		zap.Int("emptyMiscRemoved", miscRemoved),
		zap.Int("ephemeralUrlsCleared", urlsCleared),
	)
}
