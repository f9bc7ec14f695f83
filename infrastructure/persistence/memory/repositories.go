package memory

import (
	"context"

	"stash-backend/application/ports"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
)

// CategoryRepository adapts the store to the category persistence port
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a category repository over the store
func NewCategoryRepository(store *Store) ports.CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) Save(ctx context.Context, category *entities.Category) error {
	return r.store.Save(ctx, category)
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID string, id valueobjects.CategoryID) (*entities.Category, error) {
	return r.store.GetByID(ctx, userID, id)
}

func (r *CategoryRepository) GetByName(ctx context.Context, userID, name string) (*entities.Category, error) {
	return r.store.GetByName(ctx, userID, name)
}

func (r *CategoryRepository) GetAllBySortOrder(ctx context.Context, userID string) ([]*entities.Category, error) {
	return r.store.GetAllBySortOrder(ctx, userID)
}

func (r *CategoryRepository) GetAllByCreation(ctx context.Context, userID string) ([]*entities.Category, error) {
	return r.store.GetAllByCreation(ctx, userID)
}

func (r *CategoryRepository) Count(ctx context.Context, userID string) (int, error) {
	return r.store.Count(ctx, userID)
}

func (r *CategoryRepository) Delete(ctx context.Context, userID string, id valueobjects.CategoryID) error {
	return r.store.Delete(ctx, userID, id)
}

// ContentRepository adapts the store to the content persistence port
type ContentRepository struct {
	store *Store
}

// NewContentRepository creates a content repository over the store
func NewContentRepository(store *Store) ports.ContentRepository {
	return &ContentRepository{store: store}
}

func (r *ContentRepository) Save(ctx context.Context, item *entities.ContentItem) error {
	return r.store.SaveItem(ctx, item)
}

func (r *ContentRepository) GetByID(ctx context.Context, userID string, id valueobjects.ContentID) (*entities.ContentItem, error) {
	return r.store.GetItemByID(ctx, userID, id)
}

func (r *ContentRepository) GetAll(ctx context.Context, userID string, limit int) ([]*entities.ContentItem, error) {
	return r.store.GetAllItems(ctx, userID, limit)
}

func (r *ContentRepository) GetByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) ([]*entities.ContentItem, error) {
	return r.store.GetItemsByCategory(ctx, userID, categoryID)
}

func (r *ContentRepository) CountByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) (int, error) {
	return r.store.CountItemsByCategory(ctx, userID, categoryID)
}

func (r *ContentRepository) Delete(ctx context.Context, userID string, id valueobjects.ContentID) error {
	return r.store.DeleteItem(ctx, userID, id)
}
