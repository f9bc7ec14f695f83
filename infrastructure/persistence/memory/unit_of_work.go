package memory

import (
	"context"

	"stash-backend/application/ports"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"
)

type stagedKind int

const (
	stageCategorySave stagedKind = iota
	stageCategoryDelete
	stageItemSave
	stageItemDelete
)

type stagedWrite struct {
	kind       stagedKind
	category   *entities.Category
	item       *entities.ContentItem
	userID     string
	categoryID valueobjects.CategoryID
	itemID     valueobjects.ContentID
}

// UnitOfWork stages writes against the in-memory store and applies them
// atomically under one store lock, in staged order: item reassignments
// registered before a category delete land before the delete, matching the
// ordering guarantee of the DynamoDB transaction adapter.
type UnitOfWork struct {
	store  *Store
	staged []stagedWrite
	active bool
}

// UnitOfWorkFactory creates in-memory units of work
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory bound to one store
func NewUnitOfWorkFactory(store *Store) ports.UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// New creates a fresh unit of work
func (f *UnitOfWorkFactory) New() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// Begin starts a new transaction
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return pkgerrors.NewInternalError("transaction already in progress", nil)
	}
	u.active = true
	u.staged = u.staged[:0]
	return nil
}

// StageCategorySave registers a category create/update
func (u *UnitOfWork) StageCategorySave(category *entities.Category) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	u.staged = append(u.staged, stagedWrite{kind: stageCategorySave, category: category})
	return nil
}

// StageCategoryDelete registers a category removal
func (u *UnitOfWork) StageCategoryDelete(userID string, id valueobjects.CategoryID) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	u.staged = append(u.staged, stagedWrite{kind: stageCategoryDelete, userID: userID, categoryID: id})
	return nil
}

// StageItemSave registers a content item create/update
func (u *UnitOfWork) StageItemSave(item *entities.ContentItem) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	u.staged = append(u.staged, stagedWrite{kind: stageItemSave, item: item})
	return nil
}

// StageItemDelete registers a content item removal
func (u *UnitOfWork) StageItemDelete(userID string, id valueobjects.ContentID) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	u.staged = append(u.staged, stagedWrite{kind: stageItemDelete, userID: userID, itemID: id})
	return nil
}

// StagedCount reports how many writes are currently staged
func (u *UnitOfWork) StagedCount() int {
	return len(u.staged)
}

// Commit applies every staged write atomically under the store lock; on
// failure nothing is applied
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	defer func() {
		u.active = false
		u.staged = nil
	}()

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	if err := u.store.consumeFailure(); err != nil {
		return err
	}

	for _, write := range u.staged {
		switch write.kind {
		case stageCategorySave:
			u.store.putCategoryLocked(write.category)
		case stageCategoryDelete:
			u.store.deleteCategoryLocked(write.userID, write.categoryID)
		case stageItemSave:
			u.store.putItemLocked(write.item)
		case stageItemDelete:
			delete(u.store.items[write.userID], write.itemID.String())
		}
	}
	return nil
}

// Rollback discards all staged writes; safe to call after Commit
func (u *UnitOfWork) Rollback() error {
	u.active = false
	u.staged = nil
	return nil
}
