// Package di wires the application together with google/wire. The providers
// here choose between the DynamoDB and in-memory persistence backends based
// on configuration; everything downstream depends only on the ports.
package di

import (
	"context"

	"stash-backend/application/ports"
	"stash-backend/application/services"
	domainconfig "stash-backend/domain/config"
	"stash-backend/infrastructure/config"
	"stash-backend/infrastructure/messaging/eventbridge"
	"stash-backend/infrastructure/persistence/dynamodb"
	"stash-backend/infrastructure/persistence/memory"
	"stash-backend/interfaces/http/rest"
	"stash-backend/interfaces/http/rest/handlers"
	"stash-backend/pkg/auth"
	"stash-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// devUserID is the static identity used when no JWT secret is configured
const devUserID = "local-dev-user"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig supplies the domain policy constants
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMemoryStore creates the in-memory store shared by the memory
// repositories and unit of work
func ProvideMemoryStore() *memory.Store {
	return memory.NewStore()
}

// ProvideCategoryRepository creates a category repository for the configured
// backend
func ProvideCategoryRepository(cfg *config.Config, store *memory.Store, client *awsdynamodb.Client, logger *zap.Logger) ports.CategoryRepository {
	if cfg.StoreBackend == "memory" {
		return memory.NewCategoryRepository(store)
	}
	return dynamodb.NewCategoryRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideContentRepository creates a content repository for the configured
// backend
func ProvideContentRepository(cfg *config.Config, store *memory.Store, client *awsdynamodb.Client, logger *zap.Logger) ports.ContentRepository {
	if cfg.StoreBackend == "memory" {
		return memory.NewContentRepository(store)
	}
	return dynamodb.NewContentRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideUnitOfWorkFactory creates a unit-of-work factory for the configured
// backend
func ProvideUnitOfWorkFactory(cfg *config.Config, store *memory.Store, client *awsdynamodb.Client, logger *zap.Logger) ports.UnitOfWorkFactory {
	if cfg.StoreBackend == "memory" {
		return memory.NewUnitOfWorkFactory(store)
	}
	return dynamodb.NewUnitOfWorkFactory(client, cfg.DynamoDBTable, logger)
}

// ProvideEventBus creates an event bus; disabled for the in-memory backend
func ProvideEventBus(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventBus {
	if cfg.StoreBackend == "memory" {
		return nil
	}
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics publisher; nil when metrics
// are disabled
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(client, cfg.MetricsNamespace, logger)
}

// ProvideTracer creates the X-Ray tracer; nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("stash-backend")
}

// ProvideJWTValidator creates the token validator; nil when no secret is
// configured, switching the API to the static development identity
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

// ProvideCategoryService creates the category service
func ProvideCategoryService(
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.CategoryService {
	return services.NewCategoryService(categories, content, uowFactory, eventBus, domainCfg, logger)
}

// ProvideContentService creates the content service
func ProvideContentService(
	content ports.ContentRepository,
	categories ports.CategoryRepository,
	catService *services.CategoryService,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.ContentService {
	return services.NewContentService(content, categories, catService, uowFactory, eventBus, domainCfg, logger)
}

// ProvideMaintenanceService creates the maintenance service
func ProvideMaintenanceService(
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.MaintenanceService {
	return services.NewMaintenanceService(categories, content, uowFactory, eventBus, metrics, tracer, logger)
}

// ProvideCategoryManagerFactory creates the per-user manager factory
func ProvideCategoryManagerFactory(
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	catService *services.CategoryService,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.CategoryManagerFactory {
	return services.NewCategoryManagerFactory(categories, content, catService, uowFactory, eventBus, domainCfg, logger)
}

// ProvideCategoryHandler creates the category handler
func ProvideCategoryHandler(
	catService *services.CategoryService,
	contentService *services.ContentService,
	managerFactory *services.CategoryManagerFactory,
	logger *zap.Logger,
) *handlers.CategoryHandler {
	return handlers.NewCategoryHandler(catService, contentService, managerFactory, logger)
}

// ProvideContentHandler creates the content handler
func ProvideContentHandler(contentService *services.ContentService, logger *zap.Logger) *handlers.ContentHandler {
	return handlers.NewContentHandler(contentService, logger)
}

// ProvideMaintenanceHandler creates the maintenance handler
func ProvideMaintenanceHandler(
	maintenance *services.MaintenanceService,
	catService *services.CategoryService,
	contentService *services.ContentService,
	logger *zap.Logger,
) *handlers.MaintenanceHandler {
	return handlers.NewMaintenanceHandler(maintenance, catService, contentService, logger)
}

// ProvideRouter creates the configured HTTP router
func ProvideRouter(
	categoryHandler *handlers.CategoryHandler,
	contentHandler *handlers.ContentHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(categoryHandler, contentHandler, maintenanceHandler,
		validator, devUserID, cfg.EnableCORS, logger)
}
