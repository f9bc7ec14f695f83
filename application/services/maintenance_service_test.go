package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stash-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateCategories(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("merges case and whitespace variants into the earliest", func(t *testing.T) {
		env := newTestEnv(t)
		survivor := env.seedCategory(t, "Recipes", base)
		dupA := env.seedCategory(t, "recipes", base.Add(time.Hour))
		dupB := env.seedCategory(t, " Recipes ", base.Add(2*time.Hour))
		env.seedCategory(t, "Travel", base.Add(time.Minute))

		itemA := env.seedItem(t, "pasta", dupA.ID())
		itemB := env.seedItem(t, "soup", dupB.ID())
		kept := env.seedItem(t, "bread", survivor.ID())

		report, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 2, report.CategoriesRemoved)
		assert.Equal(t, 2, report.ItemsMoved)

		assert.ElementsMatch(t, []string{"Recipes", "Travel"}, env.categoryNames(t))

		for _, id := range []valueobjects.ContentID{itemA.ID(), itemB.ID(), kept.ID()} {
			item, err := env.store.GetItemByID(ctx, testUser, id)
			require.NoError(t, err)
			require.NotNil(t, item)
			assert.True(t, item.CategoryID().Equals(survivor.ID()))
		}
	})

	t.Run("survivor is the earliest created regardless of insertion order", func(t *testing.T) {
		env := newTestEnv(t)
		late := env.seedCategory(t, "travel", base.Add(3*time.Hour))
		early := env.seedCategory(t, "Travel", base)
		mid := env.seedCategory(t, "TRAVEL", base.Add(time.Hour))

		item := env.seedItem(t, "tokyo", late.ID())
		env.seedItem(t, "lisbon", mid.ID())

		report, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 2, report.CategoriesRemoved)

		names := env.categoryNames(t)
		require.Len(t, names, 1)
		assert.Equal(t, "Travel", names[0])

		moved, err := env.store.GetItemByID(ctx, testUser, item.ID())
		require.NoError(t, err)
		assert.True(t, moved.CategoryID().Equals(early.ID()))
	})

	t.Run("equal creation times break ties by identifier", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedCategory(t, "Notes", base)
		b := env.seedCategory(t, "notes", base)

		expected := a
		if b.ID().Less(a.ID()) {
			expected = b
		}

		_, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)

		remaining, err := env.store.GetAllBySortOrder(ctx, testUser)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.True(t, remaining[0].ID().Equals(expected.ID()))
	})

	t.Run("no duplicates issues no write", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)
		env.seedCategory(t, "Travel", base.Add(time.Minute))

		// A failure armed on the next write proves Commit was never called.
		env.store.FailNextWrite(errors.New("unexpected write"))

		report, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 0, report.CategoriesRemoved)
		assert.Equal(t, 0, report.ItemsMoved)
	})

	t.Run("empty store is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		report, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 0, report.CategoriesRemoved)
	})

	t.Run("failed commit leaves prior state intact", func(t *testing.T) {
		env := newTestEnv(t)
		dup := env.seedCategory(t, "recipes", base.Add(time.Hour))
		env.seedCategory(t, "Recipes", base)
		item := env.seedItem(t, "pasta", dup.ID())

		env.store.FailNextWrite(errors.New("store offline"))

		_, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.Error(t, err)

		// Both categories still present, item untouched.
		assert.Len(t, env.categoryNames(t), 2)
		got, err := env.store.GetItemByID(ctx, testUser, item.ID())
		require.NoError(t, err)
		assert.True(t, got.CategoryID().Equals(dup.ID()))

		// The next pass succeeds from the intact state.
		report, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 1, report.CategoriesRemoved)
	})

	t.Run("pass is idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)
		env.seedCategory(t, "recipes", base.Add(time.Hour))

		first, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 1, first.CategoriesRemoved)

		second, err := env.maintenance.DeduplicateCategories(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 0, second.CategoriesRemoved)
	})

	t.Run("rejects an empty user", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.maintenance.DeduplicateCategories(ctx, "")
		assert.Error(t, err)
	})
}
