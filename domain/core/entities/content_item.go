package entities

import (
	"strings"
	"time"

	"stash-backend/domain/config"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/domain/events"
	pkgerrors "stash-backend/pkg/errors"
)

// ContentItem is a captured piece of content: a shared link, an image, or
// an in-app note. It belongs to at most one category; a zero categoryID
// means the item is transiently categoryless (for example right after its
// category was deleted).
type ContentItem struct {
	id           valueobjects.ContentID
	userID       string
	title        string
	description  string
	url          string
	thumbnailURL string
	imageData    []byte
	metadata     map[string]string
	isHidden     bool
	categoryID   valueobjects.CategoryID
	createdAt    time.Time
	updatedAt    time.Time

	events []events.DomainEvent
}

// NewContentItem creates a new content item with validation
func NewContentItem(userID, title string, categoryID valueobjects.CategoryID) (*ContentItem, error) {
	return NewContentItemWithConfig(userID, title, categoryID, config.DefaultDomainConfig())
}

// NewContentItemWithConfig creates a new content item with validation and configuration
func NewContentItemWithConfig(userID, title string, categoryID valueobjects.CategoryID, cfg *config.DomainConfig) (*ContentItem, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}
	if len([]rune(title)) > cfg.MaxTitleLength {
		return nil, pkgerrors.NewValidationError("title exceeds maximum length")
	}

	now := time.Now()
	item := &ContentItem{
		id:         valueobjects.NewContentID(),
		userID:     userID,
		title:      title,
		metadata:   make(map[string]string),
		categoryID: categoryID,
		createdAt:  now,
		updatedAt:  now,
		events:     []events.DomainEvent{},
	}

	item.addEvent(events.NewContentCaptured(item.id, userID, title, now))

	return item, nil
}

// ReconstructContentItem reconstructs an item from repository data
func ReconstructContentItem(
	id valueobjects.ContentID,
	userID, title, description, url, thumbnailURL string,
	imageData []byte,
	metadata map[string]string,
	isHidden bool,
	categoryID valueobjects.CategoryID,
	createdAt, updatedAt time.Time,
) (*ContentItem, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if metadata == nil {
		metadata = make(map[string]string)
	}

	return &ContentItem{
		id:           id,
		userID:       userID,
		title:        title,
		description:  description,
		url:          url,
		thumbnailURL: thumbnailURL,
		imageData:    imageData,
		metadata:     metadata,
		isHidden:     isHidden,
		categoryID:   categoryID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		events:       []events.DomainEvent{},
	}, nil
}

// ID returns the item's unique identifier
func (i *ContentItem) ID() valueobjects.ContentID {
	return i.id
}

// UserID returns the owner's ID
func (i *ContentItem) UserID() string {
	return i.userID
}

// Title returns the item title
func (i *ContentItem) Title() string {
	return i.title
}

// Description returns the optional description
func (i *ContentItem) Description() string {
	return i.description
}

// URL returns the optional source URL
func (i *ContentItem) URL() string {
	return i.url
}

// ThumbnailURL returns the optional thumbnail URL
func (i *ContentItem) ThumbnailURL() string {
	return i.thumbnailURL
}

// ImageData returns the optional raw image bytes
func (i *ContentItem) ImageData() []byte {
	return i.imageData
}

// Metadata returns a copy of the key-value metadata
func (i *ContentItem) Metadata() map[string]string {
	m := make(map[string]string, len(i.metadata))
	for k, v := range i.metadata {
		m[k] = v
	}
	return m
}

// IsHidden reports whether the item is hidden from default listings
func (i *ContentItem) IsHidden() bool {
	return i.isHidden
}

// CategoryID returns the owning category reference; zero when categoryless
func (i *ContentItem) CategoryID() valueobjects.CategoryID {
	return i.categoryID
}

// CreatedAt returns when the item was captured
func (i *ContentItem) CreatedAt() time.Time {
	return i.createdAt
}

// UpdatedAt returns when the item was last updated
func (i *ContentItem) UpdatedAt() time.Time {
	return i.updatedAt
}

// UpdateDetails updates the editable fields
func (i *ContentItem) UpdateDetails(title, description, url string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}

	i.title = title
	i.description = strings.TrimSpace(description)
	i.url = url
	i.updatedAt = time.Now()
	return nil
}

// SetImage attaches raw image data and a thumbnail reference
func (i *ContentItem) SetImage(data []byte, thumbnailURL string) {
	i.imageData = data
	i.thumbnailURL = thumbnailURL
	i.updatedAt = time.Now()
}

// SetMetadataValue stores one metadata key
func (i *ContentItem) SetMetadataValue(key, value string) {
	if key == "" {
		return
	}
	i.metadata[key] = value
	i.updatedAt = time.Now()
}

// SetHidden toggles visibility in default listings
func (i *ContentItem) SetHidden(hidden bool) {
	if i.isHidden == hidden {
		return
	}
	i.isHidden = hidden
	i.updatedAt = time.Now()
}

// MoveToCategory re-points the item at a different category. The target
// must exist in the store; callers resolve it before moving.
func (i *ContentItem) MoveToCategory(categoryID valueobjects.CategoryID) {
	if i.categoryID.Equals(categoryID) {
		return
	}

	oldID := i.categoryID
	i.categoryID = categoryID
	i.updatedAt = time.Now()

	i.addEvent(events.NewContentRecategorized(i.id, oldID, categoryID, i.updatedAt))
}

// ClearCategory makes the item categoryless (nullify-on-delete semantics)
func (i *ContentItem) ClearCategory() {
	if i.categoryID.IsZero() {
		return
	}
	i.categoryID = valueobjects.CategoryID{}
	i.updatedAt = time.Now()
}

// ClearURL nulls out the source URL
func (i *ContentItem) ClearURL() {
	if i.url == "" {
		return
	}
	i.url = ""
	i.updatedAt = time.Now()
}

// ClearThumbnailURL nulls out the thumbnail reference
func (i *ContentItem) ClearThumbnailURL() {
	if i.thumbnailURL == "" {
		return
	}
	i.thumbnailURL = ""
	i.updatedAt = time.Now()
}

// GetUncommittedEvents returns all uncommitted domain events
func (i *ContentItem) GetUncommittedEvents() []events.DomainEvent {
	return i.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (i *ContentItem) MarkEventsAsCommitted() {
	i.events = []events.DomainEvent{}
}

func (i *ContentItem) addEvent(event events.DomainEvent) {
	i.events = append(i.events, event)
}
