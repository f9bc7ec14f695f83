// Package services holds the application-layer business logic: the category
// and content facades over the persistence ports, the interactive category
// manager, and the startup maintenance pass.
package services

import (
	"context"

	"stash-backend/application/ports"
	"stash-backend/domain/config"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"

	"go.uber.org/zap"
)

// CategoryService is the query/CRUD facade over categories. All mutating
// methods assume single-writer access within one call; atomicity across
// multiple writes is delegated to the unit of work.
type CategoryService struct {
	categories ports.CategoryRepository
	content    ports.ContentRepository
	uowFactory ports.UnitOfWorkFactory
	eventBus   ports.EventBus
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *CategoryService {
	if domainCfg == nil {
		domainCfg = config.DefaultDomainConfig()
	}
	return &CategoryService{
		categories: categories,
		content:    content,
		uowFactory: uowFactory,
		eventBus:   eventBus,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// FetchAll returns every category for the user, sortOrder ascending
func (s *CategoryService) FetchAll(ctx context.Context, userID string) ([]*entities.Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return s.categories.GetAllBySortOrder(ctx, userID)
}

// FetchByID returns the category with the given identifier, or nil
func (s *CategoryService) FetchByID(ctx context.Context, userID string, id valueobjects.CategoryID) (*entities.Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return s.categories.GetByID(ctx, userID, id)
}

// FetchByName returns the category with the exact display name, or nil.
// Callers needing normalized uniqueness normalize before calling.
func (s *CategoryService) FetchByName(ctx context.Context, userID, name string) (*entities.Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return s.categories.GetByName(ctx, userID, name)
}

// Exists reports whether a category with the exact name is present
func (s *CategoryService) Exists(ctx context.Context, userID, name string) (bool, error) {
	category, err := s.FetchByName(ctx, userID, name)
	if err != nil {
		return false, err
	}
	return category != nil, nil
}

// Create inserts a new category appended at the end of the display order.
// An empty trimmed name or an existing exact-name match is skipped without
// error; the first category a user ever creates becomes the default bucket.
func (s *CategoryService) Create(ctx context.Context, userID, rawName string) (*entities.Category, error) {
	name, err := valueobjects.NewCategoryNameWithConfig(rawName, s.domainCfg)
	if err != nil {
		// Existing policy: an empty or invalid name is silently skipped
		s.logger.Debug("skipping category create for invalid name",
			zap.String("userID", userID))
		return nil, nil
	}

	existing, err := s.categories.GetByName(ctx, userID, name.Display())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	return s.insertAppended(ctx, userID, name, false)
}

// FindOrCreate returns the exact-name match when present, otherwise creates
// a new category with append-ordering semantics
func (s *CategoryService) FindOrCreate(ctx context.Context, userID, rawName string) (*entities.Category, error) {
	name, err := valueobjects.NewCategoryNameWithConfig(rawName, s.domainCfg)
	if err != nil {
		return nil, err
	}

	existing, err := s.categories.GetByName(ctx, userID, name.Display())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.insertAppended(ctx, userID, name, false)
}

// FindOrCreateMiscCategory resolves the distinguished fallback bucket: the
// first category matching a recognized misc alias, or a freshly created one
// with the neutral appearance and append ordering
func (s *CategoryService) FindOrCreateMiscCategory(ctx context.Context, userID string) (*entities.Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	all, err := s.categories.GetAllBySortOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, category := range all {
		if category.IsMisc(s.domainCfg) {
			return category, nil
		}
	}

	misc, err := entities.NewMiscCategory(userID, int32(len(all)), s.domainCfg)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		misc.MarkDefault()
	}
	if err := s.categories.Save(ctx, misc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, misc)
	return misc, nil
}

// CleanupEmptyMiscCategories deletes every misc-aliased category that owns
// zero items. The owned-items set is verified per category immediately
// before staging the delete, so a misc bucket with content is never removed,
// even when a reassignment landed between the listing and the check.
func (s *CategoryService) CleanupEmptyMiscCategories(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, pkgerrors.NewValidationError("userID cannot be empty")
	}

	all, err := s.categories.GetAllBySortOrder(ctx, userID)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.New()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	removed := 0
	for _, category := range all {
		if !category.IsMisc(s.domainCfg) {
			continue
		}
		count, err := s.content.CountByCategory(ctx, userID, category.ID())
		if err != nil {
			return 0, err
		}
		if count > 0 {
			continue
		}
		if err := uow.StageCategoryDelete(userID, category.ID()); err != nil {
			return 0, err
		}
		removed++
	}

	if removed == 0 {
		return 0, nil
	}
	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	s.logger.Info("removed empty misc categories",
		zap.String("userID", userID),
		zap.Int("removed", removed))
	return removed, nil
}

// DefaultCategoryName returns the name of the first category flagged as
// default, falling back to the configured constant
func (s *CategoryService) DefaultCategoryName(ctx context.Context, userID string) (string, error) {
	all, err := s.categories.GetAllBySortOrder(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, category := range all {
		if category.IsDefault() {
			return category.Name().Display(), nil
		}
	}
	return s.domainCfg.DefaultCategoryName, nil
}

// insertAppended creates and persists a category at the end of the display
// order; the very first category becomes the default bucket.
func (s *CategoryService) insertAppended(ctx context.Context, userID string, name valueobjects.CategoryName, misc bool) (*entities.Category, error) {
	count, err := s.categories.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	var category *entities.Category
	if misc {
		category, err = entities.NewMiscCategory(userID, int32(count), s.domainCfg)
	} else {
		category, err = entities.NewCategory(userID, name, int32(count))
	}
	if err != nil {
		return nil, err
	}
	if count == 0 {
		category.MarkDefault()
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, category)
	return category, nil
}

// publishEvents drains uncommitted events to the bus, best effort
func (s *CategoryService) publishEvents(ctx context.Context, category *entities.Category) {
	pending := category.GetUncommittedEvents()
	if len(pending) == 0 || s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("failed to publish category events", zap.Error(err))
	}
	category.MarkEventsAsCommitted()
}
