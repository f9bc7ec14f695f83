package entities

import (
	"time"

	"stash-backend/domain/config"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/domain/events"
	pkgerrors "stash-backend/pkg/errors"
)

// Category is a user-defined named bucket that organizes content items.
// This is a rich domain model with encapsulated business logic: the name
// uniqueness rule and the sort-order contract are enforced above it by the
// category manager, while per-field validity lives here.
type Category struct {
	// Private fields ensure encapsulation
	id        valueobjects.CategoryID
	userID    string
	name      valueobjects.CategoryName
	sortOrder int32
	isDefault bool
	color     string
	icon      string
	createdAt time.Time
	updatedAt time.Time

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewCategory creates a new category with full business rule validation
func NewCategory(userID string, name valueobjects.CategoryName, sortOrder int32) (*Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if name.IsZero() {
		return nil, pkgerrors.NewValidationError("category name cannot be empty")
	}

	now := time.Now()
	category := &Category{
		id:        valueobjects.NewCategoryID(),
		userID:    userID,
		name:      name,
		sortOrder: sortOrder,
		createdAt: now,
		updatedAt: now,
		events:    []events.DomainEvent{},
	}

	category.addEvent(events.NewCategoryCreated(category.id, userID, name.Display(), now))

	return category, nil
}

// NewMiscCategory creates the distinguished fallback bucket with the
// configured neutral color and icon.
func NewMiscCategory(userID string, sortOrder int32, cfg *config.DomainConfig) (*Category, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	name, err := valueobjects.NewCategoryNameWithConfig(cfg.MiscName, cfg)
	if err != nil {
		return nil, err
	}

	category, err := NewCategory(userID, name, sortOrder)
	if err != nil {
		return nil, err
	}
	category.color = cfg.MiscColor
	category.icon = cfg.MiscIcon
	return category, nil
}

// ReconstructCategory reconstructs a category from repository data with
// preserved identity and timestamps. No creation event is raised.
func ReconstructCategory(
	id valueobjects.CategoryID,
	userID string,
	name valueobjects.CategoryName,
	sortOrder int32,
	isDefault bool,
	color, icon string,
	createdAt, updatedAt time.Time,
) (*Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if name.IsZero() {
		return nil, pkgerrors.NewValidationError("category name cannot be empty")
	}

	return &Category{
		id:        id,
		userID:    userID,
		name:      name,
		sortOrder: sortOrder,
		isDefault: isDefault,
		color:     color,
		icon:      icon,
		createdAt: createdAt,
		updatedAt: updatedAt,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the category's unique identifier
func (c *Category) ID() valueobjects.CategoryID {
	return c.id
}

// UserID returns the owner's ID
func (c *Category) UserID() string {
	return c.userID
}

// Name returns the category's name
func (c *Category) Name() valueobjects.CategoryName {
	return c.name
}

// SortOrder returns the display-order slot
func (c *Category) SortOrder() int32 {
	return c.sortOrder
}

// IsDefault reports whether this category is the default bucket
func (c *Category) IsDefault() bool {
	return c.isDefault
}

// Color returns the display color
func (c *Category) Color() string {
	return c.color
}

// Icon returns the display icon
func (c *Category) Icon() string {
	return c.icon
}

// CreatedAt returns when the category was created
func (c *Category) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the category was last updated
func (c *Category) UpdatedAt() time.Time {
	return c.updatedAt
}

// IsMisc reports whether the category is a recognized Misc alias
func (c *Category) IsMisc(cfg *config.DomainConfig) bool {
	return c.name.IsMiscAlias(cfg)
}

// Rename changes the category's name. Uniqueness against sibling
// categories is the caller's responsibility; the rename itself only
// requires a valid name.
func (c *Category) Rename(name valueobjects.CategoryName) error {
	if name.IsZero() {
		return pkgerrors.NewValidationError("category name cannot be empty")
	}
	if name.Display() == c.name.Display() {
		return nil // No change needed
	}

	oldName := c.name.Display()
	c.name = name
	c.updatedAt = time.Now()

	c.addEvent(events.NewCategoryRenamed(c.id, oldName, name.Display(), c.updatedAt))

	return nil
}

// SetSortOrder assigns a new display-order slot
func (c *Category) SetSortOrder(order int32) {
	if c.sortOrder == order {
		return
	}
	c.sortOrder = order
	c.updatedAt = time.Now()
}

// MarkDefault flags this category as the default bucket
func (c *Category) MarkDefault() {
	if c.isDefault {
		return
	}
	c.isDefault = true
	c.updatedAt = time.Now()
}

// SetAppearance updates the display color and icon
func (c *Category) SetAppearance(color, icon string) {
	c.color = color
	c.icon = icon
	c.updatedAt = time.Now()
}

// GetUncommittedEvents returns all uncommitted domain events
func (c *Category) GetUncommittedEvents() []events.DomainEvent {
	return c.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (c *Category) MarkEventsAsCommitted() {
	c.events = []events.DomainEvent{}
}

func (c *Category) addEvent(event events.DomainEvent) {
	c.events = append(c.events, event)
}
