package di

import (
	"stash-backend/application/ports"
	"stash-backend/application/services"
	"stash-backend/infrastructure/config"
	"stash-backend/interfaces/http/rest"
	"stash-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	CategoryRepo   ports.CategoryRepository
	ContentRepo    ports.ContentRepository
	UnitOfWork     ports.UnitOfWorkFactory
	EventBus       ports.EventBus
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
	Categories     *services.CategoryService
	Content        *services.ContentService
	Maintenance    *services.MaintenanceService
	ManagerFactory *services.CategoryManagerFactory
	Router         *rest.Router
}
