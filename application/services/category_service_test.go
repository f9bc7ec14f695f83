package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryServiceCreate(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("appends at the end of the display order", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)

		created, err := env.catService.Create(ctx, testUser, "Travel")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, int32(1), created.SortOrder())
		assert.Equal(t, []string{"Recipes", "Travel"}, env.categoryNames(t))
	})

	t.Run("first category becomes the default bucket", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.catService.Create(ctx, testUser, "Recipes")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.True(t, created.IsDefault())
	})

	t.Run("blank name is skipped without error", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.catService.Create(ctx, testUser, "   ")
		require.NoError(t, err)
		assert.Nil(t, created)
		assert.Empty(t, env.categoryNames(t))
	})

	t.Run("existing exact name is skipped without error", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)

		created, err := env.catService.Create(ctx, testUser, "Recipes")
		require.NoError(t, err)
		assert.Nil(t, created)
		assert.Equal(t, []string{"Recipes"}, env.categoryNames(t))
	})
}

func TestFindOrCreate(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the existing match", func(t *testing.T) {
		env := newTestEnv(t)
		existing := env.seedCategory(t, "Recipes", base)

		got, err := env.catService.FindOrCreate(ctx, testUser, "Recipes")
		require.NoError(t, err)
		assert.True(t, got.ID().Equals(existing.ID()))
	})

	t.Run("creates when absent", func(t *testing.T) {
		env := newTestEnv(t)
		got, err := env.catService.FindOrCreate(ctx, testUser, "Travel")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Travel", got.Name().Display())
	})
}

func TestFindOrCreateMiscCategory(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("recognizes any misc alias", func(t *testing.T) {
		env := newTestEnv(t)
		other := env.seedCategory(t, "Other", base)

		misc, err := env.catService.FindOrCreateMiscCategory(ctx, testUser)
		require.NoError(t, err)
		assert.True(t, misc.ID().Equals(other.ID()))
	})

	t.Run("creates the bucket appended when absent", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)

		misc, err := env.catService.FindOrCreateMiscCategory(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, "Misc", misc.Name().Display())
		assert.Equal(t, int32(1), misc.SortOrder())
	})
}

func TestCleanupEmptyMiscCategories(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("removes empty misc buckets only", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Misc", base)
		env.seedCategory(t, "Other", base.Add(time.Minute))
		kept := env.seedCategory(t, "Uncategorized", base.Add(2*time.Minute))
		env.seedCategory(t, "Recipes", base.Add(3*time.Minute))
		env.seedItem(t, "stray", kept.ID())

		removed, err := env.catService.CleanupEmptyMiscCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.ElementsMatch(t, []string{"Uncategorized", "Recipes"}, env.categoryNames(t))
	})

	t.Run("nothing to remove issues no write", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)

		removed, err := env.catService.CleanupEmptyMiscCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})
}

func TestDefaultCategoryName(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the flagged default", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base) // first seed is flagged default

		name, err := env.catService.DefaultCategoryName(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, "Recipes", name)
	})

	t.Run("falls back to the configured constant", func(t *testing.T) {
		env := newTestEnv(t)
		name, err := env.catService.DefaultCategoryName(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, "Misc", name)
	})
}
