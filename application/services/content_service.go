package services

import (
	"context"
	"strings"

	"stash-backend/application/ports"
	"stash-backend/domain/config"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"

	"go.uber.org/zap"
)

// ContentService is the query/CRUD facade over content items
type ContentService struct {
	content    ports.ContentRepository
	categories ports.CategoryRepository
	catService *CategoryService
	uowFactory ports.UnitOfWorkFactory
	eventBus   ports.EventBus
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(
	content ports.ContentRepository,
	categories ports.CategoryRepository,
	catService *CategoryService,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *ContentService {
	if domainCfg == nil {
		domainCfg = config.DefaultDomainConfig()
	}
	return &ContentService{
		content:    content,
		categories: categories,
		catService: catService,
		uowFactory: uowFactory,
		eventBus:   eventBus,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// Capture creates a new content item from a share-sheet payload. When a
// category name is given the item lands in that category, creating it on
// first use; otherwise the item starts categoryless.
func (s *ContentService) Capture(ctx context.Context, userID, title, description, url, categoryName string) (*entities.ContentItem, error) {
	var categoryID valueobjects.CategoryID
	if strings.TrimSpace(categoryName) != "" {
		category, err := s.catService.FindOrCreate(ctx, userID, categoryName)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID()
	}

	item, err := entities.NewContentItemWithConfig(userID, title, categoryID, s.domainCfg)
	if err != nil {
		return nil, err
	}
	if description != "" || url != "" {
		if err := item.UpdateDetails(item.Title(), description, url); err != nil {
			return nil, err
		}
	}

	if err := s.content.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishItemEvents(ctx, item)
	return item, nil
}

// FetchAll returns items newest first, optionally capped; limit <= 0 means
// unbounded
func (s *ContentService) FetchAll(ctx context.Context, userID string, limit int) ([]*entities.ContentItem, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return s.content.GetAll(ctx, userID, limit)
}

// FetchByID returns the item with the given identifier, or nil
func (s *ContentService) FetchByID(ctx context.Context, userID string, itemID valueobjects.ContentID) (*entities.ContentItem, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return s.content.GetByID(ctx, userID, itemID)
}

// FetchByCategoryName returns the items owned by the category with the
// exact display name; an unknown name yields an empty result
func (s *ContentService) FetchByCategoryName(ctx context.Context, userID, categoryName string) ([]*entities.ContentItem, error) {
	category, err := s.categories.GetByName(ctx, userID, strings.TrimSpace(categoryName))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return []*entities.ContentItem{}, nil
	}
	return s.content.GetByCategory(ctx, userID, category.ID())
}

// Search returns items whose title, description, or URL contains the query
// under case-insensitive comparison, newest first
func (s *ContentService) Search(ctx context.Context, userID, query string) ([]*entities.ContentItem, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.FetchAll(ctx, userID, 0)
	}

	all, err := s.content.GetAll(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	matches := make([]*entities.ContentItem, 0, len(all))
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Title()), query) ||
			strings.Contains(strings.ToLower(item.Description()), query) ||
			strings.Contains(strings.ToLower(item.URL()), query) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// CountForCategory counts the items owned by the named category. Results
// are deduplicated by identifier first, guarding against the store
// returning duplicate rows under a concurrent fetch.
func (s *ContentService) CountForCategory(ctx context.Context, userID, categoryName string) (int, error) {
	category, err := s.categories.GetByName(ctx, userID, strings.TrimSpace(categoryName))
	if err != nil {
		return 0, err
	}
	if category == nil {
		return 0, nil
	}

	items, err := s.content.GetByCategory(ctx, userID, category.ID())
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		seen[item.ID().String()] = true
	}
	return len(seen), nil
}

// Recategorize moves an item into the named category, creating it on
// first use; an empty name makes the item categoryless
func (s *ContentService) Recategorize(ctx context.Context, userID string, itemID valueobjects.ContentID, categoryName string) (*entities.ContentItem, error) {
	item, err := s.content.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("content item")
	}

	if strings.TrimSpace(categoryName) == "" {
		item.ClearCategory()
	} else {
		category, err := s.catService.FindOrCreate(ctx, userID, categoryName)
		if err != nil {
			return nil, err
		}
		item.MoveToCategory(category.ID())
	}

	if err := s.content.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishItemEvents(ctx, item)
	return item, nil
}

// Delete removes one item
func (s *ContentService) Delete(ctx context.Context, userID string, itemID valueobjects.ContentID) error {
	return s.content.Delete(ctx, userID, itemID)
}

// DeleteBatch removes several items in one atomic commit
func (s *ContentService) DeleteBatch(ctx context.Context, userID string, itemIDs []valueobjects.ContentID) error {
	if len(itemIDs) == 0 {
		return nil
	}

	uow := s.uowFactory.New()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, id := range itemIDs {
		if err := uow.StageItemDelete(userID, id); err != nil {
			return err
		}
	}
	return uow.Commit(ctx)
}

// CleanupInvalidImageURLs scans every item and nulls out URL and thumbnail
// references that point at a platform temp-file path; such paths never
// survive a device restart. All mutations commit in one batch. Returns the
// number of items cleaned.
func (s *ContentService) CleanupInvalidImageURLs(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, pkgerrors.NewValidationError("userID cannot be empty")
	}

	all, err := s.content.GetAll(ctx, userID, 0)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.New()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	cleaned := 0
	for _, item := range all {
		dirty := false
		if s.isEphemeralURL(item.URL()) {
			item.ClearURL()
			dirty = true
		}
		if s.isEphemeralURL(item.ThumbnailURL()) {
			item.ClearThumbnailURL()
			dirty = true
		}
		if dirty {
			if err := uow.StageItemSave(item); err != nil {
				return 0, err
			}
			cleaned++
		}
	}

	if cleaned == 0 {
		return 0, nil
	}
	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	s.logger.Info("cleaned ephemeral image URLs",
		zap.String("userID", userID),
		zap.Int("items", cleaned))
	return cleaned, nil
}

func (s *ContentService) isEphemeralURL(url string) bool {
	if url == "" {
		return false
	}
	for _, prefix := range s.domainCfg.EphemeralURLPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func (s *ContentService) publishItemEvents(ctx context.Context, item *entities.ContentItem) {
	pending := item.GetUncommittedEvents()
	if len(pending) == 0 || s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("failed to publish content events", zap.Error(err))
	}
	item.MarkEventsAsCommitted()
}
