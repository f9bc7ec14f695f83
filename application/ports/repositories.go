package ports

import (
	"context"

	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/domain/events"
)

// CategoryRepository defines the interface for category persistence
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation
type CategoryRepository interface {
	// Save persists a category (create or update)
	Save(ctx context.Context, category *entities.Category) error

	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, userID string, id valueobjects.CategoryID) (*entities.Category, error)

	// GetByName retrieves a category by exact display name, nil when absent
	GetByName(ctx context.Context, userID, name string) (*entities.Category, error)

	// GetAllBySortOrder retrieves all categories for a user, sortOrder ascending
	GetAllBySortOrder(ctx context.Context, userID string) ([]*entities.Category, error)

	// GetAllByCreation retrieves all categories for a user, createdAt
	// ascending with ties broken by ID comparison
	GetAllByCreation(ctx context.Context, userID string) ([]*entities.Category, error)

	// Count returns the number of categories the user has
	Count(ctx context.Context, userID string) (int, error)

	// Delete removes a category
	Delete(ctx context.Context, userID string, id valueobjects.CategoryID) error
}

// ContentRepository defines the interface for content item persistence
type ContentRepository interface {
	// Save persists a content item (create or update)
	Save(ctx context.Context, item *entities.ContentItem) error

	// GetByID retrieves an item by its ID
	GetByID(ctx context.Context, userID string, id valueobjects.ContentID) (*entities.ContentItem, error)

	// GetAll retrieves items for a user, createdAt descending; limit <= 0
	// means unbounded
	GetAll(ctx context.Context, userID string, limit int) ([]*entities.ContentItem, error)

	// GetByCategory retrieves all items owned by a category
	GetByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) ([]*entities.ContentItem, error)

	// CountByCategory returns the number of items owned by a category
	CountByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) (int, error)

	// Delete removes an item
	Delete(ctx context.Context, userID string, id valueobjects.ContentID) error
}

// UnitOfWork stages writes for one logical operation and commits them as a
// single atomic batch. The caller owns the transaction boundary: repository
// reads happen outside, all affected rows are computed in memory, then every
// staged write commits together or not at all.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// StageCategorySave registers a category create/update
	StageCategorySave(category *entities.Category) error

	// StageCategoryDelete registers a category removal
	StageCategoryDelete(userID string, id valueobjects.CategoryID) error

	// StageItemSave registers a content item create/update
	StageItemSave(item *entities.ContentItem) error

	// StageItemDelete registers a content item removal
	StageItemDelete(userID string, id valueobjects.ContentID) error

	// StagedCount reports how many writes are currently staged
	StagedCount() int

	// Commit applies every staged write atomically; on failure nothing is
	// applied and the transaction is closed
	Commit(ctx context.Context) error

	// Rollback discards all staged writes
	Rollback() error
}

// UnitOfWorkFactory creates fresh units of work; one per logical operation
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// EventBus publishes domain events for downstream consumers (the sync
// transport observes these to propagate mutations to other devices)
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
