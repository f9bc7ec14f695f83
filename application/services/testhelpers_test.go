package services

import (
	"context"
	"testing"
	"time"

	"stash-backend/domain/config"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	"stash-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUser = "user-1"

// testEnv wires the services over a fresh in-memory store
type testEnv struct {
	store       *memory.Store
	catService  *CategoryService
	contentSvc  *ContentService
	maintenance *MaintenanceService
	manager     *CategoryManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	categories := memory.NewCategoryRepository(store)
	content := memory.NewContentRepository(store)
	uowFactory := memory.NewUnitOfWorkFactory(store)
	logger := zap.NewNop()
	domainCfg := config.DefaultDomainConfig()

	catService := NewCategoryService(categories, content, uowFactory, nil, domainCfg, logger)
	contentSvc := NewContentService(content, categories, catService, uowFactory, nil, domainCfg, logger)
	maintenance := NewMaintenanceService(categories, content, uowFactory, nil, nil, nil, logger)
	manager := NewCategoryManager(testUser, categories, content, catService, uowFactory, nil, domainCfg, logger)

	return &testEnv{
		store:       store,
		catService:  catService,
		contentSvc:  contentSvc,
		maintenance: maintenance,
		manager:     manager,
	}
}

// seedCategory stores a category with a controlled creation time
func (e *testEnv) seedCategory(t *testing.T, name string, createdAt time.Time) *entities.Category {
	t.Helper()

	vn, err := valueobjects.NewCategoryName(name)
	require.NoError(t, err)

	count, err := e.store.Count(context.Background(), testUser)
	require.NoError(t, err)

	category, err := entities.ReconstructCategory(
		valueobjects.NewCategoryID(), testUser, vn, int32(count), count == 0,
		"", "", createdAt, createdAt,
	)
	require.NoError(t, err)
	require.NoError(t, e.store.Save(context.Background(), category))
	return category
}

// seedItem stores a content item owned by the given category
func (e *testEnv) seedItem(t *testing.T, title string, categoryID valueobjects.CategoryID) *entities.ContentItem {
	t.Helper()

	now := time.Now()
	item, err := entities.ReconstructContentItem(
		valueobjects.NewContentID(), testUser, title, "", "", "",
		nil, nil, false, categoryID, now, now,
	)
	require.NoError(t, err)
	require.NoError(t, e.store.SaveItem(context.Background(), item))
	return item
}

// categoryNames returns the display names in sortOrder
func (e *testEnv) categoryNames(t *testing.T) []string {
	t.Helper()

	all, err := e.store.GetAllBySortOrder(context.Background(), testUser)
	require.NoError(t, err)

	names := make([]string, 0, len(all))
	for _, category := range all {
		names = append(names, category.Name().Display())
	}
	return names
}
