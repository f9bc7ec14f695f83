package services

import (
	"context"
	"sort"
	"time"

	"stash-backend/application/ports"
	"stash-backend/domain/config"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/domain/events"
	pkgerrors "stash-backend/pkg/errors"

	"go.uber.org/zap"
)

// EditorState is the interactive state of the category manager
type EditorState int

const (
	// StateIdle means no edit or delete is in flight
	StateIdle EditorState = iota
	// StateEditing means a create or rename is being composed
	StateEditing
	// StateConfirmingDelete means a delete awaits confirmation
	StateConfirmingDelete
)

// CommitOutcome is the typed result of committing an edit. The legacy
// behavior swallowed invalid input silently; returning the reason lets
// callers and tests distinguish why nothing was written.
type CommitOutcome string

const (
	// OutcomeCreated means a new category was inserted
	OutcomeCreated CommitOutcome = "created"
	// OutcomeRenamed means the target category's name changed
	OutcomeRenamed CommitOutcome = "renamed"
	// OutcomeNoChange means a rename resolved to the target's current name
	OutcomeNoChange CommitOutcome = "no_change"
	// OutcomeRejectedEmpty means the proposed name trimmed to nothing
	OutcomeRejectedEmpty CommitOutcome = "rejected_empty"
	// OutcomeRejectedDuplicate means another category already holds the
	// name under case-insensitive trimmed comparison
	OutcomeRejectedDuplicate CommitOutcome = "rejected_duplicate"
	// OutcomeNotEditing means Commit was called outside an edit
	OutcomeNotEditing CommitOutcome = "not_editing"
)

// FilterAll is the filter selection meaning "no category filter"
const FilterAll = "all"

// CategoryManager drives the interactive create/rename/delete/reorder
// operations, enforcing the case-insensitive uniqueness rule and
// cascade-safe deletion. One manager serves one user's editing session and
// is confined to a single logical writer; it holds no internal locks.
type CategoryManager struct {
	userID     string
	categories ports.CategoryRepository
	content    ports.ContentRepository
	catService *CategoryService
	uowFactory ports.UnitOfWorkFactory
	eventBus   ports.EventBus
	domainCfg  *config.DomainConfig
	logger     *zap.Logger

	state        EditorState
	editTarget   *entities.Category // nil while composing a create
	proposedName string
	deleteTarget *entities.Category
	activeFilter string // category ID, or FilterAll
}

// NewCategoryManager creates a manager bound to one user's session
func NewCategoryManager(
	userID string,
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	catService *CategoryService,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *CategoryManager {
	if domainCfg == nil {
		domainCfg = config.DefaultDomainConfig()
	}
	return &CategoryManager{
		userID:       userID,
		categories:   categories,
		content:      content,
		catService:   catService,
		uowFactory:   uowFactory,
		eventBus:     eventBus,
		domainCfg:    domainCfg,
		logger:       logger,
		state:        StateIdle,
		activeFilter: FilterAll,
	}
}

// CategoryManagerFactory builds per-user manager sessions. HTTP handlers
// create a fresh manager per request; long-lived callers may keep one per
// editing session.
type CategoryManagerFactory struct {
	categories ports.CategoryRepository
	content    ports.ContentRepository
	catService *CategoryService
	uowFactory ports.UnitOfWorkFactory
	eventBus   ports.EventBus
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewCategoryManagerFactory creates a manager factory
func NewCategoryManagerFactory(
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	catService *CategoryService,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *CategoryManagerFactory {
	return &CategoryManagerFactory{
		categories: categories,
		content:    content,
		catService: catService,
		uowFactory: uowFactory,
		eventBus:   eventBus,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// ForUser creates a manager bound to one user's session
func (f *CategoryManagerFactory) ForUser(userID string) *CategoryManager {
	return NewCategoryManager(userID, f.categories, f.content, f.catService,
		f.uowFactory, f.eventBus, f.domainCfg, f.logger)
}

// State returns the current interactive state
func (m *CategoryManager) State() EditorState {
	return m.state
}

// ActiveFilter returns the current filter selection
func (m *CategoryManager) ActiveFilter() string {
	return m.activeFilter
}

// SetActiveFilter selects a category filter (a category ID or FilterAll)
func (m *CategoryManager) SetActiveFilter(filter string) {
	if filter == "" {
		filter = FilterAll
	}
	m.activeFilter = filter
}

// PrepareCreate enters the editing state composing a new category
func (m *CategoryManager) PrepareCreate() {
	m.state = StateEditing
	m.editTarget = nil
	m.proposedName = ""
}

// PrepareRename enters the editing state for an existing category,
// seeding the proposal with its current name
func (m *CategoryManager) PrepareRename(category *entities.Category) {
	m.state = StateEditing
	m.editTarget = category
	m.proposedName = category.Name().Display()
}

// SetProposedName updates the name being composed
func (m *CategoryManager) SetProposedName(name string) {
	m.proposedName = name
}

// CancelEdit discards the in-flight edit
func (m *CategoryManager) CancelEdit() {
	m.state = StateIdle
	m.editTarget = nil
	m.proposedName = ""
}

// Commit validates the proposed name and either inserts a new category at
// the end of the display order or renames the edit target in place. The
// uniqueness check is case-insensitive over trimmed names and excludes the
// target itself by identifier, so a same-name rename is a no-op rather than
// a duplicate. Any rejection leaves the store untouched and returns the
// manager to idle.
func (m *CategoryManager) Commit(ctx context.Context) (CommitOutcome, error) {
	if m.state != StateEditing {
		return OutcomeNotEditing, nil
	}
	defer m.CancelEdit()

	name, err := valueobjects.NewCategoryNameWithConfig(m.proposedName, m.domainCfg)
	if err != nil {
		return OutcomeRejectedEmpty, nil
	}

	taken, err := m.nameTaken(ctx, name, m.editTarget)
	if err != nil {
		return "", err
	}
	if taken {
		return OutcomeRejectedDuplicate, nil
	}

	if m.editTarget == nil {
		count, err := m.categories.Count(ctx, m.userID)
		if err != nil {
			return "", err
		}
		category, err := entities.NewCategory(m.userID, name, int32(count))
		if err != nil {
			return "", err
		}
		if count == 0 {
			category.MarkDefault()
		}
		if err := m.categories.Save(ctx, category); err != nil {
			return "", err
		}
		m.publishEntityEvents(ctx, category)
		return OutcomeCreated, nil
	}

	if name.Display() == m.editTarget.Name().Display() {
		return OutcomeNoChange, nil
	}
	if err := m.editTarget.Rename(name); err != nil {
		return "", err
	}
	if err := m.categories.Save(ctx, m.editTarget); err != nil {
		return "", err
	}
	m.publishEntityEvents(ctx, m.editTarget)
	return OutcomeRenamed, nil
}

// PrepareDelete enters the confirmation-pending state
func (m *CategoryManager) PrepareDelete(category *entities.Category) {
	m.state = StateConfirmingDelete
	m.deleteTarget = category
}

// CancelDelete discards the pending delete
func (m *CategoryManager) CancelDelete() {
	m.state = StateIdle
	m.deleteTarget = nil
}

// ConfirmDelete removes the pending category. Owned items are re-pointed
// at the Misc bucket (created first when absent) and the reassignments
// commit together with the deletion, so no item is ever left with a
// dangling category reference. Deleting the Misc bucket itself is refused
// while it owns items. If the deleted category was the active filter
// selection, the selection resets to FilterAll.
func (m *CategoryManager) ConfirmDelete(ctx context.Context) error {
	if m.state != StateConfirmingDelete || m.deleteTarget == nil {
		return pkgerrors.NewValidationError("no delete pending")
	}
	target := m.deleteTarget
	defer m.CancelDelete()

	items, err := m.content.GetByCategory(ctx, m.userID, target.ID())
	if err != nil {
		return err
	}

	uow := m.uowFactory.New()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	var miscID valueobjects.CategoryID
	if len(items) > 0 {
		misc, err := m.catService.FindOrCreateMiscCategory(ctx, m.userID)
		if err != nil {
			return err
		}
		if misc.ID().Equals(target.ID()) {
			return pkgerrors.NewConflictError("cannot delete the misc category while it owns items")
		}
		miscID = misc.ID()

		for _, item := range items {
			item.MoveToCategory(miscID)
			if err := uow.StageItemSave(item); err != nil {
				return err
			}
		}
	}

	if err := uow.StageCategoryDelete(m.userID, target.ID()); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if m.activeFilter == target.ID().String() {
		m.activeFilter = FilterAll
	}

	m.publishEvent(ctx, events.NewCategoryDeleted(
		target.ID(), target.Name().Display(), miscID, len(items), time.Now()))

	m.logger.Info("category deleted",
		zap.String("userID", m.userID),
		zap.String("categoryID", target.ID().String()),
		zap.Int("itemsReassigned", len(items)))
	return nil
}

// MoveCategories applies a drag-and-drop move over the visible subset of
// categories and resequences sortOrder across the full set: the reordered
// visible categories take slots 0..v-1 and the hidden ones follow in their
// previous relative order. A category is hidden only when it is the Misc
// bucket and currently owns zero items. All changed slots commit in one
// batch, leaving the sortOrder values an exact permutation of 0..n-1.
func (m *CategoryManager) MoveCategories(ctx context.Context, sourceIndices []int, destIndex int) error {
	all, err := m.categories.GetAllBySortOrder(ctx, m.userID)
	if err != nil {
		return err
	}
	if len(all) == 0 || len(sourceIndices) == 0 {
		return nil
	}

	visible := make([]*entities.Category, 0, len(all))
	hidden := make([]*entities.Category, 0, 1)
	for _, category := range all {
		isHidden := false
		if category.IsMisc(m.domainCfg) {
			count, err := m.content.CountByCategory(ctx, m.userID, category.ID())
			if err != nil {
				return err
			}
			isHidden = count == 0
		}
		if isHidden {
			hidden = append(hidden, category)
		} else {
			visible = append(visible, category)
		}
	}

	reordered, err := moveElements(visible, sourceIndices, destIndex)
	if err != nil {
		return err
	}

	uow := m.uowFactory.New()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	next := int32(0)
	for _, category := range append(reordered, hidden...) {
		if category.SortOrder() != next {
			category.SetSortOrder(next)
			if err := uow.StageCategorySave(category); err != nil {
				return err
			}
		}
		next++
	}

	if uow.StagedCount() == 0 {
		return nil
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	m.publishEvent(ctx, events.NewCategoriesReordered(m.userID, len(all), time.Now()))
	return nil
}

// nameTaken checks the trimmed case-insensitive uniqueness rule against
// every category except the excluded one (matched by identifier, not name)
func (m *CategoryManager) nameTaken(ctx context.Context, name valueobjects.CategoryName, exclude *entities.Category) (bool, error) {
	all, err := m.categories.GetAllBySortOrder(ctx, m.userID)
	if err != nil {
		return false, err
	}
	for _, category := range all {
		if exclude != nil && category.ID().Equals(exclude.ID()) {
			continue
		}
		if category.Name().EqualsFold(name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *CategoryManager) publishEntityEvents(ctx context.Context, category *entities.Category) {
	pending := category.GetUncommittedEvents()
	if len(pending) == 0 || m.eventBus == nil {
		return
	}
	if err := m.eventBus.PublishBatch(ctx, pending); err != nil {
		m.logger.Warn("failed to publish category events", zap.Error(err))
	}
	category.MarkEventsAsCommitted()
}

func (m *CategoryManager) publishEvent(ctx context.Context, event events.DomainEvent) {
	if m.eventBus == nil {
		return
	}
	if err := m.eventBus.Publish(ctx, event); err != nil {
		m.logger.Warn("failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err))
	}
}

// moveElements applies a move of the elements at sourceIndices to
// destIndex, matching platform drag-and-drop semantics: destIndex addresses
// a position in the original slice, and the moved elements keep their
// relative order.
func moveElements(slice []*entities.Category, sourceIndices []int, destIndex int) ([]*entities.Category, error) {
	if destIndex < 0 || destIndex > len(slice) {
		return nil, pkgerrors.NewValidationError("destination index out of range")
	}

	src := make([]int, len(sourceIndices))
	copy(src, sourceIndices)
	sort.Ints(src)

	moving := make([]*entities.Category, 0, len(src))
	picked := make(map[int]bool, len(src))
	for _, i := range src {
		if i < 0 || i >= len(slice) {
			return nil, pkgerrors.NewValidationError("source index out of range")
		}
		if picked[i] {
			continue
		}
		picked[i] = true
		moving = append(moving, slice[i])
	}

	remaining := make([]*entities.Category, 0, len(slice)-len(moving))
	insertAt := destIndex
	for i, category := range slice {
		if picked[i] {
			if i < destIndex {
				insertAt--
			}
			continue
		}
		remaining = append(remaining, category)
	}

	result := make([]*entities.Category, 0, len(slice))
	result = append(result, remaining[:insertAt]...)
	result = append(result, moving...)
	result = append(result, remaining[insertAt:]...)
	return result, nil
}
