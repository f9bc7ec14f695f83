// Package handlers contains the HTTP request handlers for the REST API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"stash-backend/application/services"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/pkg/auth"
	"stash-backend/pkg/common"
	pkgerrors "stash-backend/pkg/errors"
	"stash-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	catService     *services.CategoryService
	contentService *services.ContentService
	managerFactory *services.CategoryManagerFactory
	logger         *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(
	catService *services.CategoryService,
	contentService *services.ContentService,
	managerFactory *services.CategoryManagerFactory,
	logger *zap.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		catService:     catService,
		contentService: contentService,
		managerFactory: managerFactory,
		logger:         logger,
	}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int32  `json:"sortOrder"`
	IsDefault bool   `json:"isDefault"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// RenameCategoryRequest represents the request body for renaming a category
type RenameCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ReorderCategoriesRequest represents the request body for reordering
type ReorderCategoriesRequest struct {
	SourceIndices []int `json:"sourceIndices" validate:"required,min=1"`
	DestIndex     int   `json:"destIndex" validate:"min=0"`
}

// CommitResponse reports the outcome of a create or rename
type CommitResponse struct {
	Outcome string `json:"outcome"`
}

func toCategoryResponse(category *entities.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID().String(),
		Name:      category.Name().Display(),
		SortOrder: category.SortOrder(),
		IsDefault: category.IsDefault(),
		Color:     category.Color(),
		Icon:      category.Icon(),
		CreatedAt: category.CreatedAt().Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt().Format(time.RFC3339),
	}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	all, err := h.catService.FetchAll(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	responses := make([]CategoryResponse, 0, len(all))
	for _, category := range all {
		responses = append(responses, toCategoryResponse(category))
	}
	common.RespondJSON(w, http.StatusOK, responses)
}

// GetCategory handles GET /categories/{categoryID}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	category, err := h.fetchCategory(r, userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toCategoryResponse(category))
}

// GetCategoryItemCount handles GET /categories/{categoryID}/count
func (h *CategoryHandler) GetCategoryItemCount(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	category, err := h.fetchCategory(r, userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	count, err := h.contentService.CountForCategory(r.Context(), userCtx.UserID, category.Name().Display())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	manager := h.managerFactory.ForUser(userCtx.UserID)
	manager.PrepareCreate()
	manager.SetProposedName(req.Name)
	outcome, err := manager.Commit(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.respondOutcome(w, outcome, http.StatusCreated)
}

// RenameCategory handles PUT /categories/{categoryID}
func (h *CategoryHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req RenameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	category, err := h.fetchCategory(r, userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	manager := h.managerFactory.ForUser(userCtx.UserID)
	manager.PrepareRename(category)
	manager.SetProposedName(req.Name)
	outcome, err := manager.Commit(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.respondOutcome(w, outcome, http.StatusOK)
}

// DeleteCategory handles DELETE /categories/{categoryID}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	category, err := h.fetchCategory(r, userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	manager := h.managerFactory.ForUser(userCtx.UserID)
	manager.PrepareDelete(category)
	if err := manager.ConfirmDelete(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ReorderCategories handles POST /categories/reorder
func (h *CategoryHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req ReorderCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	manager := h.managerFactory.ForUser(userCtx.UserID)
	if err := manager.MoveCategories(r.Context(), req.SourceIndices, req.DestIndex); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "categories reordered"})
}

// fetchCategory resolves the {categoryID} path parameter to the user's
// category, or a typed not-found/validation error
func (h *CategoryHandler) fetchCategory(r *http.Request, userID string) (*entities.Category, error) {
	id, err := valueobjects.NewCategoryIDFromString(chi.URLParam(r, "categoryID"))
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid category ID")
	}
	category, err := h.catService.FetchByID(r.Context(), userID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, pkgerrors.NewNotFoundError("category")
	}
	return category, nil
}

// respondOutcome maps a commit outcome to the right status code
func (h *CategoryHandler) respondOutcome(w http.ResponseWriter, outcome services.CommitOutcome, successStatus int) {
	switch outcome {
	case services.OutcomeRejectedEmpty:
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "category name cannot be empty")
	case services.OutcomeRejectedDuplicate:
		common.RespondError(w, http.StatusConflict, string(pkgerrors.ErrorTypeConflict), "a category with this name already exists")
	case services.OutcomeNotEditing:
		common.RespondError(w, http.StatusConflict, string(pkgerrors.ErrorTypeConflict), "no edit in progress")
	case services.OutcomeNoChange:
		common.RespondJSON(w, http.StatusOK, CommitResponse{Outcome: string(outcome)})
	default:
		common.RespondJSON(w, successStatus, CommitResponse{Outcome: string(outcome)})
	}
}
