//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"stash-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideMemoryStore,
	ProvideCategoryRepository,
	ProvideContentRepository,
	ProvideUnitOfWorkFactory,
	ProvideEventBus,
	ProvideMetrics,
	ProvideTracer,
	ProvideJWTValidator,
	ProvideCategoryService,
	ProvideContentService,
	ProvideMaintenanceService,
	ProvideCategoryManagerFactory,
	ProvideCategoryHandler,
	ProvideContentHandler,
	ProvideMaintenanceHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
