package events

import (
	"time"

	"stash-backend/domain/core/valueobjects"
)

// Category Events

// CategoryCreated is raised when a new category is created
type CategoryCreated struct {
	BaseEvent
	CategoryID valueobjects.CategoryID `json:"category_id"`
	UserID     string                  `json:"user_id"`
	Name       string                  `json:"name"`
}

// NewCategoryCreated creates a CategoryCreated event
func NewCategoryCreated(categoryID valueobjects.CategoryID, userID, name string, timestamp time.Time) CategoryCreated {
	return CategoryCreated{
		BaseEvent: BaseEvent{
			AggregateID: categoryID.String(),
			EventType:   "category.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		CategoryID: categoryID,
		UserID:     userID,
		Name:       name,
	}
}

// CategoryRenamed is raised when a category's name changes
type CategoryRenamed struct {
	BaseEvent
	CategoryID valueobjects.CategoryID `json:"category_id"`
	OldName    string                  `json:"old_name"`
	NewName    string                  `json:"new_name"`
}

// NewCategoryRenamed creates a CategoryRenamed event
func NewCategoryRenamed(categoryID valueobjects.CategoryID, oldName, newName string, timestamp time.Time) CategoryRenamed {
	return CategoryRenamed{
		BaseEvent: BaseEvent{
			AggregateID: categoryID.String(),
			EventType:   "category.renamed",
			Timestamp:   timestamp,
			Version:     1,
		},
		CategoryID: categoryID,
		OldName:    oldName,
		NewName:    newName,
	}
}

// CategoryDeleted is raised when a category is removed; ReassignedTo names
// the bucket that received its items
type CategoryDeleted struct {
	BaseEvent
	CategoryID   valueobjects.CategoryID `json:"category_id"`
	Name         string                  `json:"name"`
	ReassignedTo valueobjects.CategoryID `json:"reassigned_to"`
	ItemsMoved   int                     `json:"items_moved"`
}

// NewCategoryDeleted creates a CategoryDeleted event
func NewCategoryDeleted(categoryID valueobjects.CategoryID, name string, reassignedTo valueobjects.CategoryID, itemsMoved int, timestamp time.Time) CategoryDeleted {
	return CategoryDeleted{
		BaseEvent: BaseEvent{
			AggregateID: categoryID.String(),
			EventType:   "category.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		CategoryID:   categoryID,
		Name:         name,
		ReassignedTo: reassignedTo,
		ItemsMoved:   itemsMoved,
	}
}

// CategoriesMerged is raised by the maintenance pass when duplicate-named
// categories are collapsed into one survivor
type CategoriesMerged struct {
	BaseEvent
	SurvivorID valueobjects.CategoryID   `json:"survivor_id"`
	Name       string                    `json:"name"`
	RemovedIDs []valueobjects.CategoryID `json:"removed_ids"`
	ItemsMoved int                       `json:"items_moved"`
}

// NewCategoriesMerged creates a CategoriesMerged event
func NewCategoriesMerged(survivorID valueobjects.CategoryID, name string, removedIDs []valueobjects.CategoryID, itemsMoved int, timestamp time.Time) CategoriesMerged {
	return CategoriesMerged{
		BaseEvent: BaseEvent{
			AggregateID: survivorID.String(),
			EventType:   "category.duplicates_merged",
			Timestamp:   timestamp,
			Version:     1,
		},
		SurvivorID: survivorID,
		Name:       name,
		RemovedIDs: removedIDs,
		ItemsMoved: itemsMoved,
	}
}

// CategoriesReordered is raised when the display order is resequenced
type CategoriesReordered struct {
	BaseEvent
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

// NewCategoriesReordered creates a CategoriesReordered event
func NewCategoriesReordered(userID string, count int, timestamp time.Time) CategoriesReordered {
	return CategoriesReordered{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "category.reordered",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID: userID,
		Count:  count,
	}
}

// Content Events

// ContentCaptured is raised when a new content item enters the store
type ContentCaptured struct {
	BaseEvent
	ContentID valueobjects.ContentID `json:"content_id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
}

// NewContentCaptured creates a ContentCaptured event
func NewContentCaptured(contentID valueobjects.ContentID, userID, title string, timestamp time.Time) ContentCaptured {
	return ContentCaptured{
		BaseEvent: BaseEvent{
			AggregateID: contentID.String(),
			EventType:   "content.captured",
			Timestamp:   timestamp,
			Version:     1,
		},
		ContentID: contentID,
		UserID:    userID,
		Title:     title,
	}
}

// ContentRecategorized is raised when an item is re-pointed at a
// different category
type ContentRecategorized struct {
	BaseEvent
	ContentID     valueobjects.ContentID  `json:"content_id"`
	OldCategoryID valueobjects.CategoryID `json:"old_category_id"`
	NewCategoryID valueobjects.CategoryID `json:"new_category_id"`
}

// NewContentRecategorized creates a ContentRecategorized event
func NewContentRecategorized(contentID valueobjects.ContentID, oldCategoryID, newCategoryID valueobjects.CategoryID, timestamp time.Time) ContentRecategorized {
	return ContentRecategorized{
		BaseEvent: BaseEvent{
			AggregateID: contentID.String(),
			EventType:   "content.recategorized",
			Timestamp:   timestamp,
			Version:     1,
		},
		ContentID:     contentID,
		OldCategoryID: oldCategoryID,
		NewCategoryID: newCategoryID,
	}
}
