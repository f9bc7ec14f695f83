package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
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

// ContentHandler handles content item HTTP requests
type ContentHandler struct {
	contentService *services.ContentService
	logger         *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *services.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// ContentResponse represents a content item in API responses
type ContentResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	CategoryID   string `json:"categoryId,omitempty"`
	IsHidden     bool   `json:"isHidden"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// CaptureRequest represents the request body for capturing an item
type CaptureRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	URL         string `json:"url,omitempty" validate:"omitempty,max=2000"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100"`
}

// RecategorizeRequest represents the request body for moving an item
type RecategorizeRequest struct {
	Category string `json:"category" validate:"max=100"`
}

// BulkDeleteRequest represents the request body for bulk deletion
type BulkDeleteRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,max=100,dive,uuid"`
}

func toContentResponse(item *entities.ContentItem) ContentResponse {
	resp := ContentResponse{
		ID:           item.ID().String(),
		Title:        item.Title(),
		Description:  item.Description(),
		URL:          item.URL(),
		ThumbnailURL: item.ThumbnailURL(),
		IsHidden:     item.IsHidden(),
		CreatedAt:    item.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt().Format(time.RFC3339),
	}
	if !item.CategoryID().IsZero() {
		resp.CategoryID = item.CategoryID().String()
	}
	return resp
}

// CaptureItem handles POST /items
func (h *ContentHandler) CaptureItem(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
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

	item, err := h.contentService.Capture(r.Context(), userCtx.UserID, req.Title, req.Description, req.URL, req.Category)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toContentResponse(item))
}

// ListItems handles GET /items with optional q, category, and limit params
func (h *ContentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	var items []*entities.ContentItem
	switch {
	case r.URL.Query().Get("q") != "":
		items, err = h.contentService.Search(r.Context(), userCtx.UserID, r.URL.Query().Get("q"))
	case r.URL.Query().Get("category") != "":
		items, err = h.contentService.FetchByCategoryName(r.Context(), userCtx.UserID, r.URL.Query().Get("category"))
	default:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}
		items, err = h.contentService.FetchAll(r.Context(), userCtx.UserID, limit)
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	responses := make([]ContentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toContentResponse(item))
	}
	common.RespondJSON(w, http.StatusOK, responses)
}

// GetItem handles GET /items/{itemID}
func (h *ContentHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	id, err := valueobjects.NewContentIDFromString(chi.URLParam(r, "itemID"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid item ID")
		return
	}

	item, err := h.contentService.FetchByID(r.Context(), userCtx.UserID, id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if item == nil {
		common.RespondError(w, http.StatusNotFound, string(pkgerrors.ErrorTypeNotFound), "content item not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, toContentResponse(item))
}

// RecategorizeItem handles PUT /items/{itemID}/category. An empty category
// name makes the item categoryless.
func (h *ContentHandler) RecategorizeItem(w http.ResponseWriter, r *http.Request) {
	var req RecategorizeRequest
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

	id, err := valueobjects.NewContentIDFromString(chi.URLParam(r, "itemID"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid item ID")
		return
	}

	item, err := h.contentService.Recategorize(r.Context(), userCtx.UserID, id, req.Category)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toContentResponse(item))
}

// DeleteItem handles DELETE /items/{itemID}
func (h *ContentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
		return
	}

	id, err := valueobjects.NewContentIDFromString(chi.URLParam(r, "itemID"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid item ID")
		return
	}

	if err := h.contentService.Delete(r.Context(), userCtx.UserID, id); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// BulkDeleteItems handles POST /items/bulk-delete
func (h *ContentHandler) BulkDeleteItems(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
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

	ids := make([]valueobjects.ContentID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := valueobjects.NewContentIDFromString(raw)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), "invalid item ID: "+raw)
			return
		}
		ids = append(ids, id)
	}

	if err := h.contentService.DeleteBatch(r.Context(), userCtx.UserID, ids); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"deleted": len(ids)})
}
