package services

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "stash-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryManagerCommit(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("create appends at the end of the display order", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)
		env.seedCategory(t, "Travel", base.Add(time.Minute))

		env.manager.PrepareCreate()
		env.manager.SetProposedName("Books")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, outcome)
		assert.Equal(t, StateIdle, env.manager.State())

		assert.Equal(t, []string{"Recipes", "Travel", "Books"}, env.categoryNames(t))
	})

	t.Run("create trims the proposed name", func(t *testing.T) {
		env := newTestEnv(t)
		env.manager.PrepareCreate()
		env.manager.SetProposedName("  Books  ")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, outcome)
		assert.Equal(t, []string{"Books"}, env.categoryNames(t))
	})

	t.Run("rejects a name that trims to nothing", func(t *testing.T) {
		env := newTestEnv(t)
		env.manager.PrepareCreate()
		env.manager.SetProposedName("   ")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRejectedEmpty, outcome)
		assert.Empty(t, env.categoryNames(t))
	})

	t.Run("rejects a duplicate under case-insensitive comparison", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Recipes", base)

		env.manager.PrepareCreate()
		env.manager.SetProposedName(" recipes ")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRejectedDuplicate, outcome)
		assert.Equal(t, []string{"Recipes"}, env.categoryNames(t))
	})

	t.Run("rename changes the name in place", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)
		env.seedCategory(t, "Travel", base.Add(time.Minute))

		env.manager.PrepareRename(target)
		env.manager.SetProposedName("Cooking")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRenamed, outcome)
		assert.Equal(t, []string{"Cooking", "Travel"}, env.categoryNames(t))
	})

	t.Run("same-name rename is a no-op, not a duplicate", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)

		env.manager.PrepareRename(target)
		env.manager.SetProposedName("Recipes")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoChange, outcome)
	})

	t.Run("case-only rename of the same category is allowed", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "recipes", base)

		env.manager.PrepareRename(target)
		env.manager.SetProposedName("Recipes")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRenamed, outcome)
		assert.Equal(t, []string{"Recipes"}, env.categoryNames(t))
	})

	t.Run("rename onto another category's name is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)
		env.seedCategory(t, "Travel", base.Add(time.Minute))

		env.manager.PrepareRename(target)
		env.manager.SetProposedName("travel")
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRejectedDuplicate, outcome)
		assert.Equal(t, []string{"Recipes", "Travel"}, env.categoryNames(t))
	})

	t.Run("commit outside an edit reports not editing", func(t *testing.T) {
		env := newTestEnv(t)
		outcome, err := env.manager.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNotEditing, outcome)
	})

	t.Run("cancel discards the in-flight edit", func(t *testing.T) {
		env := newTestEnv(t)
		env.manager.PrepareCreate()
		env.manager.SetProposedName("Books")
		env.manager.CancelEdit()
		assert.Equal(t, StateIdle, env.manager.State())
		assert.Empty(t, env.categoryNames(t))
	})
}

func TestCategoryManagerDelete(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("owned items move to misc in the same commit", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)
		itemA := env.seedItem(t, "pasta", target.ID())
		itemB := env.seedItem(t, "soup", target.ID())

		env.manager.PrepareDelete(target)
		require.NoError(t, env.manager.ConfirmDelete(ctx))

		names := env.categoryNames(t)
		assert.NotContains(t, names, "Recipes")
		assert.Contains(t, names, "Misc")

		misc, err := env.store.GetByName(ctx, testUser, "Misc")
		require.NoError(t, err)
		require.NotNil(t, misc)

		gotA, err := env.store.GetItemByID(ctx, testUser, itemA.ID())
		require.NoError(t, err)
		assert.True(t, gotA.CategoryID().Equals(misc.ID()))
		gotB, err := env.store.GetItemByID(ctx, testUser, itemB.ID())
		require.NoError(t, err)
		assert.True(t, gotB.CategoryID().Equals(misc.ID()))
	})

	t.Run("empty category deletes without creating misc", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)

		env.manager.PrepareDelete(target)
		require.NoError(t, env.manager.ConfirmDelete(ctx))

		assert.Empty(t, env.categoryNames(t))
	})

	t.Run("reuses an existing misc alias instead of creating one", func(t *testing.T) {
		env := newTestEnv(t)
		other := env.seedCategory(t, "Other", base)
		target := env.seedCategory(t, "Recipes", base.Add(time.Minute))
		item := env.seedItem(t, "pasta", target.ID())

		env.manager.PrepareDelete(target)
		require.NoError(t, env.manager.ConfirmDelete(ctx))

		assert.Equal(t, []string{"Other"}, env.categoryNames(t))
		got, err := env.store.GetItemByID(ctx, testUser, item.ID())
		require.NoError(t, err)
		assert.True(t, got.CategoryID().Equals(other.ID()))
	})

	t.Run("refuses deleting the misc bucket while it owns items", func(t *testing.T) {
		env := newTestEnv(t)
		misc := env.seedCategory(t, "Misc", base)
		env.seedItem(t, "stray", misc.ID())

		env.manager.PrepareDelete(misc)
		err := env.manager.ConfirmDelete(ctx)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))
		assert.Equal(t, []string{"Misc"}, env.categoryNames(t))
	})

	t.Run("deleting the filtered category resets the filter", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)
		env.manager.SetActiveFilter(target.ID().String())

		env.manager.PrepareDelete(target)
		require.NoError(t, env.manager.ConfirmDelete(ctx))
		assert.Equal(t, FilterAll, env.manager.ActiveFilter())
	})

	t.Run("failed commit leaves the category and items intact", func(t *testing.T) {
		env := newTestEnv(t)
		target := env.seedCategory(t, "Recipes", base)
		item := env.seedItem(t, "pasta", target.ID())

		env.store.FailNextWrite(errors.New("store offline"))

		env.manager.PrepareDelete(target)
		err := env.manager.ConfirmDelete(ctx)
		require.Error(t, err)

		assert.Contains(t, env.categoryNames(t), "Recipes")
		got, err := env.store.GetItemByID(ctx, testUser, item.ID())
		require.NoError(t, err)
		assert.True(t, got.CategoryID().Equals(target.ID()))
	})

	t.Run("confirm without a pending delete fails", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.manager.ConfirmDelete(ctx)
		assert.Error(t, err)
	})
}

func TestCategoryManagerReorder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedFour := func(t *testing.T, env *testEnv) {
		env.seedCategory(t, "A", base)
		env.seedCategory(t, "B", base.Add(time.Minute))
		env.seedCategory(t, "C", base.Add(2*time.Minute))
		env.seedCategory(t, "D", base.Add(3*time.Minute))
	}

	t.Run("moving the last category to the front", func(t *testing.T) {
		env := newTestEnv(t)
		seedFour(t, env)

		require.NoError(t, env.manager.MoveCategories(ctx, []int{3}, 0))
		assert.Equal(t, []string{"D", "A", "B", "C"}, env.categoryNames(t))
	})

	t.Run("moving the first category down", func(t *testing.T) {
		env := newTestEnv(t)
		seedFour(t, env)

		require.NoError(t, env.manager.MoveCategories(ctx, []int{0}, 2))
		assert.Equal(t, []string{"B", "A", "C", "D"}, env.categoryNames(t))
	})

	t.Run("sort orders stay a permutation of 0..n-1", func(t *testing.T) {
		env := newTestEnv(t)
		seedFour(t, env)

		require.NoError(t, env.manager.MoveCategories(ctx, []int{3}, 0))

		all, err := env.store.GetAllBySortOrder(ctx, testUser)
		require.NoError(t, err)
		for i, category := range all {
			assert.Equal(t, int32(i), category.SortOrder())
		}
	})

	t.Run("empty misc is excluded from the visible reorder", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "A", base)
		env.seedCategory(t, "Misc", base.Add(time.Minute))
		env.seedCategory(t, "B", base.Add(2*time.Minute))

		// Visible set is [A, B]; moving index 1 to 0 swaps them. The empty
		// misc bucket trails the visible categories afterward.
		require.NoError(t, env.manager.MoveCategories(ctx, []int{1}, 0))
		assert.Equal(t, []string{"B", "A", "Misc"}, env.categoryNames(t))
	})

	t.Run("misc with items takes part in the reorder", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "A", base)
		misc := env.seedCategory(t, "Misc", base.Add(time.Minute))
		env.seedCategory(t, "B", base.Add(2*time.Minute))
		env.seedItem(t, "stray", misc.ID())

		// Visible set is [A, Misc, B]; moving index 2 to 0 puts B first.
		require.NoError(t, env.manager.MoveCategories(ctx, []int{2}, 0))
		assert.Equal(t, []string{"B", "A", "Misc"}, env.categoryNames(t))
	})

	t.Run("out of range destination is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		seedFour(t, env)
		err := env.manager.MoveCategories(ctx, []int{0}, 9)
		assert.Error(t, err)
	})

	t.Run("no-op move issues no write", func(t *testing.T) {
		env := newTestEnv(t)
		seedFour(t, env)

		env.store.FailNextWrite(errors.New("unexpected write"))
		require.NoError(t, env.manager.MoveCategories(ctx, []int{0}, 0))
		assert.Equal(t, []string{"A", "B", "C", "D"}, env.categoryNames(t))
	})
}
