package services

import (
	"context"
	"sort"
	"time"

	"stash-backend/application/ports"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/domain/events"
	pkgerrors "stash-backend/pkg/errors"
	"stash-backend/pkg/observability"

	"go.uber.org/zap"
)

// MaintenanceReport carries the outcome counters of one deduplication pass
type MaintenanceReport struct {
	CategoriesRemoved int `json:"categories_removed"`
	ItemsMoved        int `json:"items_moved"`
}

// MaintenanceService restores the category-name uniqueness invariant after
// it was violated by independent category creation across devices that
// raced before sync convergence. The pass is idempotent and cheap, so it
// runs at every process startup and may be re-invoked at any time; a
// duplicate reintroduced by a later sync merge is caught on the next run.
type MaintenanceService struct {
	categories ports.CategoryRepository
	content    ports.ContentRepository
	uowFactory ports.UnitOfWorkFactory
	eventBus   ports.EventBus
	metrics    *observability.Metrics
	tracer     *observability.Tracer
	logger     *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	categories ports.CategoryRepository,
	content ports.ContentRepository,
	uowFactory ports.UnitOfWorkFactory,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		categories: categories,
		content:    content,
		uowFactory: uowFactory,
		eventBus:   eventBus,
		metrics:    metrics,
		tracer:     tracer,
		logger:     logger,
	}
}

// DeduplicateCategories merges every group of categories whose names are
// equal after trimming and lowercasing into a single survivor: the
// earliest-created member, ties broken by ID comparison. Content items of
// the other members are re-pointed at the survivor before the duplicates
// are deleted, and all writes of the pass commit in one atomic batch.
// An empty store or a store with no duplicate groups issues no write.
func (s *MaintenanceService) DeduplicateCategories(ctx context.Context, userID string) (*MaintenanceReport, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	report := &MaintenanceReport{}
	started := time.Now()

	err := s.tracer.TraceFunction(ctx, "maintenance.deduplicate_categories", func(ctx context.Context) error {
		return s.deduplicate(ctx, userID, report)
	})
	if err != nil {
		// The batch failed atomically; prior state is intact and the next
		// startup retries.
		s.logger.Error("category deduplication pass failed",
			zap.String("userID", userID),
			zap.Error(err))
		return nil, err
	}

	s.metrics.RecordMaintenancePass(ctx, report.CategoriesRemoved, report.ItemsMoved, time.Since(started))
	s.logger.Info("category deduplication pass complete",
		zap.String("userID", userID),
		zap.Int("categoriesRemoved", report.CategoriesRemoved),
		zap.Int("itemsMoved", report.ItemsMoved),
		zap.Duration("duration", time.Since(started)))

	return report, nil
}

func (s *MaintenanceService) deduplicate(ctx context.Context, userID string, report *MaintenanceReport) error {
	all, err := s.categories.GetAllByCreation(ctx, userID)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	groups := groupByNormalizedName(all)

	uow := s.uowFactory.New()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	var merged []events.DomainEvent

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		survivor := group[0]
		duplicates := group[1:]
		removedIDs := make([]valueobjects.CategoryID, 0, len(duplicates))
		moved := 0

		for _, duplicate := range duplicates {
			items, err := s.content.GetByCategory(ctx, userID, duplicate.ID())
			if err != nil {
				return err
			}
			for _, item := range items {
				item.MoveToCategory(survivor.ID())
				if err := uow.StageItemSave(item); err != nil {
					return err
				}
				moved++
			}
			if err := uow.StageCategoryDelete(userID, duplicate.ID()); err != nil {
				return err
			}
			removedIDs = append(removedIDs, duplicate.ID())
		}

		report.CategoriesRemoved += len(duplicates)
		report.ItemsMoved += moved
		merged = append(merged, events.NewCategoriesMerged(
			survivor.ID(), survivor.Name().Display(), removedIDs, moved, time.Now()))
	}

	if report.CategoriesRemoved == 0 {
		// Nothing to repair; no write is issued.
		return nil
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishBatch(ctx, merged); err != nil {
			s.logger.Warn("failed to publish merge events", zap.Error(err))
		}
	}

	return nil
}

// groupByNormalizedName buckets categories by their trimmed, lowercased
// name. Each bucket is ordered earliest-created first with ID comparison
// as the deterministic tie-break, so the survivor choice does not depend
// on the repository's fetch order.
func groupByNormalizedName(all []*entities.Category) [][]*entities.Category {
	index := make(map[string]int, len(all))
	groups := make([][]*entities.Category, 0, len(all))

	for _, category := range all {
		key := valueobjects.NormalizeKey(category.Name().Display())
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, []*entities.Category{category})
			continue
		}
		groups[i] = append(groups[i], category)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(a, b int) bool {
			if !group[a].CreatedAt().Equal(group[b].CreatedAt()) {
				return group[a].CreatedAt().Before(group[b].CreatedAt())
			}
			return group[a].ID().Less(group[b].ID())
		})
	}

	return groups
}
