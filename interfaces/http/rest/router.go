// Package rest wires the HTTP surface of the backend: routing, middleware,
// and the handlers for categories, content items, and maintenance.
package rest

import (
	"net/http"

	"stash-backend/interfaces/http/rest/handlers"
	"stash-backend/interfaces/http/rest/middleware"
	"stash-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	categoryHandler    *handlers.CategoryHandler
	contentHandler     *handlers.ContentHandler
	maintenanceHandler *handlers.MaintenanceHandler
	validator          *auth.JWTValidator // nil means static dev identity
	devUserID          string
	enableCORS         bool
	logger             *zap.Logger
}

// NewRouter creates a new router instance. A nil validator switches the API
// to a fixed development identity instead of JWT authentication.
func NewRouter(
	categoryHandler *handlers.CategoryHandler,
	contentHandler *handlers.ContentHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	validator *auth.JWTValidator,
	devUserID string,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		categoryHandler:    categoryHandler,
		contentHandler:     contentHandler,
		maintenanceHandler: maintenanceHandler,
		validator:          validator,
		devUserID:          devUserID,
		enableCORS:         enableCORS,
		logger:             logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.stash.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		if rt.validator != nil {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
		} else {
			r.Use(middleware.AuthenticateStatic(rt.devUserID))
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", rt.categoryHandler.ListCategories)
			r.Post("/", rt.categoryHandler.CreateCategory)
			r.Post("/reorder", rt.categoryHandler.ReorderCategories)
			r.Get("/{categoryID}", rt.categoryHandler.GetCategory)
			r.Put("/{categoryID}", rt.categoryHandler.RenameCategory)
			r.Delete("/{categoryID}", rt.categoryHandler.DeleteCategory)
			r.Get("/{categoryID}/count", rt.categoryHandler.GetCategoryItemCount)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", rt.contentHandler.ListItems)
			r.Post("/", rt.contentHandler.CaptureItem)
			r.Post("/bulk-delete", rt.contentHandler.BulkDeleteItems)
			r.Get("/{itemID}", rt.contentHandler.GetItem)
			r.Put("/{itemID}/category", rt.contentHandler.RecategorizeItem)
			r.Delete("/{itemID}", rt.contentHandler.DeleteItem)
		})

		r.Post("/maintenance", rt.maintenanceHandler.RunMaintenance)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
