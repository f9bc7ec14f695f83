package handlers

import (
	"net/http"

	"stash-backend/application/services"
	"stash-backend/pkg/auth"
	"stash-backend/pkg/common"
	pkgerrors "stash-backend/pkg/errors"

	"go.uber.org/zap"
)

// MaintenanceHandler exposes the consistency-maintenance pass over HTTP.
// The same pass runs automatically at process startup; the endpoint lets
// operators re-run it on demand.
type MaintenanceHandler struct {
	maintenance    *services.MaintenanceService
	catService     *services.CategoryService
	contentService *services.ContentService
	logger         *zap.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(
	maintenance *services.MaintenanceService,
	catService *services.CategoryService,
	contentService *services.ContentService,
	logger *zap.Logger,
) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenance:    maintenance,
		catService:     catService,
		contentService: contentService,
		logger:         logger,
	}
}

// MaintenanceResponse reports what a full maintenance pass changed
type MaintenanceResponse struct {
	CategoriesRemoved    int `json:"categoriesRemoved"`
	ItemsMoved           int `json:"itemsMoved"`
	EmptyMiscRemoved     int `json:"emptyMiscRemoved"`
	EphemeralURLsCleared int `json:"ephemeralUrlsCleared"`
}

// RunMaintenance handles POST /maintenance: deduplicate categories, drop
// empty misc buckets, and clear ephemeral image URLs for the caller
func (h *MaintenanceHandler) RunMaintenance(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	report, err := h.maintenance.DeduplicateCategories(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	miscRemoved, err := h.catService.CleanupEmptyMiscCategories(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	urlsCleared, err := h.contentService.CleanupInvalidImageURLs(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, MaintenanceResponse{
		CategoriesRemoved:    report.CategoriesRemoved,
		ItemsMoved:           report.ItemsMoved,
		EmptyMiscRemoved:     miscRemoved,
		EphemeralURLsCleared: urlsCleared,
	})
}
