// Package memory provides an in-memory implementation of the persistence
// ports. It backs the service tests and local development; the commit
// discipline mirrors the DynamoDB adapter, applying every staged write of a
// unit of work atomically under one lock.
package memory

import (
	"context"
	"sort"
	"sync"

	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"
)

// Store is a mutex-guarded in-memory entity store holding categories and
// content items per user
type Store struct {
	mu         sync.RWMutex
	categories map[string]map[string]*entities.Category   // userID -> categoryID -> category
	items      map[string]map[string]*entities.ContentItem // userID -> itemID -> item
	failNext   error
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		categories: make(map[string]map[string]*entities.Category),
		items:      make(map[string]map[string]*entities.ContentItem),
	}
}

// FailNextWrite makes the next mutating call return the given error,
// leaving the store untouched. Used by tests to exercise the
// all-or-nothing commit contract.
func (s *Store) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) consumeFailure() error {
	if s.failNext == nil {
		return nil
	}
	err := s.failNext
	s.failNext = nil
	return pkgerrors.NewStoreError("write rejected", err)
}

// Save persists a category (create or update)
func (s *Store) Save(ctx context.Context, category *entities.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	s.putCategoryLocked(category)
	return nil
}

// GetByID retrieves a category by its ID, nil when absent
func (s *Store) GetByID(ctx context.Context, userID string, id valueobjects.CategoryID) (*entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[userID][id.String()]
	if !ok {
		return nil, nil
	}
	return cloneCategory(category), nil
}

// GetByName retrieves a category by exact display name, nil when absent
func (s *Store) GetByName(ctx context.Context, userID, name string) (*entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, category := range s.categories[userID] {
		if category.Name().Display() == name {
			return cloneCategory(category), nil
		}
	}
	return nil, nil
}

// GetAllBySortOrder retrieves all categories for a user, sortOrder ascending
func (s *Store) GetAllBySortOrder(ctx context.Context, userID string) ([]*entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.allCategoriesLocked(userID)
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].SortOrder() != all[b].SortOrder() {
			return all[a].SortOrder() < all[b].SortOrder()
		}
		return all[a].ID().Less(all[b].ID())
	})
	return all, nil
}

// GetAllByCreation retrieves all categories for a user, createdAt ascending
// with ties broken by ID comparison
func (s *Store) GetAllByCreation(ctx context.Context, userID string) ([]*entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.allCategoriesLocked(userID)
	sort.SliceStable(all, func(a, b int) bool {
		if !all[a].CreatedAt().Equal(all[b].CreatedAt()) {
			return all[a].CreatedAt().Before(all[b].CreatedAt())
		}
		return all[a].ID().Less(all[b].ID())
	})
	return all, nil
}

// Count returns the number of categories the user has
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories[userID]), nil
}

// Delete removes a category; items referencing it are made categoryless
// (nullify-on-delete)
func (s *Store) Delete(ctx context.Context, userID string, id valueobjects.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	s.deleteCategoryLocked(userID, id)
	return nil
}

// SaveItem persists a content item (create or update)
func (s *Store) SaveItem(ctx context.Context, item *entities.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	s.putItemLocked(item)
	return nil
}

// GetItemByID retrieves an item by its ID, nil when absent
func (s *Store) GetItemByID(ctx context.Context, userID string, id valueobjects.ContentID) (*entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[userID][id.String()]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

// GetAllItems retrieves items for a user, createdAt descending; limit <= 0
// means unbounded
func (s *Store) GetAllItems(ctx context.Context, userID string, limit int) ([]*entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.allItemsLocked(userID)
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].CreatedAt().After(all[b].CreatedAt())
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetItemsByCategory retrieves all items owned by a category
func (s *Store) GetItemsByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) ([]*entities.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*entities.ContentItem, 0)
	for _, item := range s.items[userID] {
		if item.CategoryID().Equals(categoryID) {
			matches = append(matches, cloneItem(item))
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].CreatedAt().After(matches[b].CreatedAt())
	})
	return matches, nil
}

// CountItemsByCategory returns the number of items owned by a category
func (s *Store) CountItemsByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.items[userID] {
		if item.CategoryID().Equals(categoryID) {
			count++
		}
	}
	return count, nil
}

// DeleteItem removes an item
func (s *Store) DeleteItem(ctx context.Context, userID string, id valueobjects.ContentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	delete(s.items[userID], id.String())
	return nil
}

func (s *Store) allCategoriesLocked(userID string) []*entities.Category {
	all := make([]*entities.Category, 0, len(s.categories[userID]))
	for _, category := range s.categories[userID] {
		all = append(all, cloneCategory(category))
	}
	return all
}

func (s *Store) allItemsLocked(userID string) []*entities.ContentItem {
	all := make([]*entities.ContentItem, 0, len(s.items[userID]))
	for _, item := range s.items[userID] {
		all = append(all, cloneItem(item))
	}
	return all
}

func (s *Store) putCategoryLocked(category *entities.Category) {
	userID := category.UserID()
	if s.categories[userID] == nil {
		s.categories[userID] = make(map[string]*entities.Category)
	}
	s.categories[userID][category.ID().String()] = cloneCategory(category)
}

func (s *Store) putItemLocked(item *entities.ContentItem) {
	userID := item.UserID()
	if s.items[userID] == nil {
		s.items[userID] = make(map[string]*entities.ContentItem)
	}
	s.items[userID][item.ID().String()] = cloneItem(item)
}

func (s *Store) deleteCategoryLocked(userID string, id valueobjects.CategoryID) {
	delete(s.categories[userID], id.String())
	// Nullify-on-delete: any item still pointing at the removed category
	// becomes categoryless rather than dangling.
	for _, item := range s.items[userID] {
		if item.CategoryID().Equals(id) {
			item.ClearCategory()
		}
	}
}

// cloneCategory copies a category so callers never share mutable state
// with the store
func cloneCategory(c *entities.Category) *entities.Category {
	clone, err := entities.ReconstructCategory(
		c.ID(), c.UserID(), c.Name(), c.SortOrder(), c.IsDefault(),
		c.Color(), c.Icon(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		// Reconstruction of a stored category cannot fail; stored records
		// were validated on the way in.
		panic(err)
	}
	return clone
}

func cloneItem(i *entities.ContentItem) *entities.ContentItem {
	clone, err := entities.ReconstructContentItem(
		i.ID(), i.UserID(), i.Title(), i.Description(), i.URL(),
		i.ThumbnailURL(), i.ImageData(), i.Metadata(), i.IsHidden(),
		i.CategoryID(), i.CreatedAt(), i.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return clone
}
