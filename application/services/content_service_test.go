package services

import (
	"context"
	"testing"
	"time"

	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentServiceCapture(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the named category on first use", func(t *testing.T) {
		env := newTestEnv(t)

		item, err := env.contentSvc.Capture(ctx, testUser, "Pasta carbonara", "", "https://example.com/pasta", "Recipes")
		require.NoError(t, err)

		category, err := env.store.GetByName(ctx, testUser, "Recipes")
		require.NoError(t, err)
		require.NotNil(t, category)
		assert.True(t, item.CategoryID().Equals(category.ID()))
		assert.Equal(t, "https://example.com/pasta", item.URL())
	})

	t.Run("reuses an existing category by exact name", func(t *testing.T) {
		env := newTestEnv(t)
		existing := env.seedCategory(t, "Recipes", time.Now())

		item, err := env.contentSvc.Capture(ctx, testUser, "Soup", "", "", "Recipes")
		require.NoError(t, err)
		assert.True(t, item.CategoryID().Equals(existing.ID()))

		count, err := env.store.Count(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("no category leaves the item categoryless", func(t *testing.T) {
		env := newTestEnv(t)
		item, err := env.contentSvc.Capture(ctx, testUser, "Loose note", "", "", "")
		require.NoError(t, err)
		assert.True(t, item.CategoryID().IsZero())
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.contentSvc.Capture(ctx, testUser, "   ", "", "", "")
		assert.Error(t, err)
	})
}

func TestContentServiceSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("matches title, description, and URL case-insensitively", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "Pasta Carbonara", valueobjects.CategoryID{})

		withDesc, err := entities.NewContentItem(testUser, "Dinner idea", valueobjects.CategoryID{})
		require.NoError(t, err)
		require.NoError(t, withDesc.UpdateDetails("Dinner idea", "slow-cooked PASTA sauce", ""))
		require.NoError(t, env.store.SaveItem(ctx, withDesc))

		withURL, err := entities.NewContentItem(testUser, "Bookmark", valueobjects.CategoryID{})
		require.NoError(t, err)
		require.NoError(t, withURL.UpdateDetails("Bookmark", "", "https://pasta.example.com"))
		require.NoError(t, env.store.SaveItem(ctx, withURL))

		env.seedItem(t, "Travel plans", valueobjects.CategoryID{})

		matches, err := env.contentSvc.Search(ctx, testUser, "pasta")
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "one", valueobjects.CategoryID{})
		env.seedItem(t, "two", valueobjects.CategoryID{})

		matches, err := env.contentSvc.Search(ctx, testUser, "   ")
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})
}

func TestContentServiceCountForCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("counts distinct items by identifier", func(t *testing.T) {
		env := newTestEnv(t)
		category := env.seedCategory(t, "Recipes", time.Now())
		env.seedItem(t, "pasta", category.ID())
		env.seedItem(t, "soup", category.ID())
		env.seedItem(t, "loose", valueobjects.CategoryID{})

		count, err := env.contentSvc.CountForCategory(ctx, testUser, "Recipes")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("unknown category counts zero", func(t *testing.T) {
		env := newTestEnv(t)
		count, err := env.contentSvc.CountForCategory(ctx, testUser, "Nope")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestContentServiceRecategorize(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the item, creating the category on first use", func(t *testing.T) {
		env := newTestEnv(t)
		item := env.seedItem(t, "pasta", valueobjects.CategoryID{})

		moved, err := env.contentSvc.Recategorize(ctx, testUser, item.ID(), "Recipes")
		require.NoError(t, err)

		category, err := env.store.GetByName(ctx, testUser, "Recipes")
		require.NoError(t, err)
		require.NotNil(t, category)
		assert.True(t, moved.CategoryID().Equals(category.ID()))
	})

	t.Run("empty name makes the item categoryless", func(t *testing.T) {
		env := newTestEnv(t)
		category := env.seedCategory(t, "Recipes", time.Now())
		item := env.seedItem(t, "pasta", category.ID())

		moved, err := env.contentSvc.Recategorize(ctx, testUser, item.ID(), "")
		require.NoError(t, err)
		assert.True(t, moved.CategoryID().IsZero())
	})

	t.Run("unknown item is a not-found error", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.contentSvc.Recategorize(ctx, testUser, valueobjects.NewContentID(), "Recipes")
		assert.Error(t, err)
	})
}

func TestCleanupInvalidImageURLs(t *testing.T) {
	ctx := context.Background()

	seedWithURL := func(t *testing.T, env *testEnv, title, url, thumb string) *entities.ContentItem {
		t.Helper()
		now := time.Now()
		item, err := entities.ReconstructContentItem(
			valueobjects.NewContentID(), testUser, title, "", url, thumb,
			nil, nil, false, valueobjects.CategoryID{}, now, now,
		)
		require.NoError(t, err)
		require.NoError(t, env.store.SaveItem(ctx, item))
		return item
	}

	t.Run("clears temp-file references and keeps real URLs", func(t *testing.T) {
		env := newTestEnv(t)
		tmp := seedWithURL(t, env, "screenshot", "/tmp/screenshot.png", "")
		private := seedWithURL(t, env, "share", "file:///private/var/mobile/x.jpg", "/private/var/thumb.jpg")
		keep := seedWithURL(t, env, "article", "https://example.com/a", "https://example.com/a.jpg")

		cleaned, err := env.contentSvc.CleanupInvalidImageURLs(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 2, cleaned)

		gotTmp, err := env.store.GetItemByID(ctx, testUser, tmp.ID())
		require.NoError(t, err)
		assert.Empty(t, gotTmp.URL())

		gotPrivate, err := env.store.GetItemByID(ctx, testUser, private.ID())
		require.NoError(t, err)
		assert.Empty(t, gotPrivate.URL())
		assert.Empty(t, gotPrivate.ThumbnailURL())

		gotKeep, err := env.store.GetItemByID(ctx, testUser, keep.ID())
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", gotKeep.URL())
		assert.Equal(t, "https://example.com/a.jpg", gotKeep.ThumbnailURL())
	})

	t.Run("nothing to clean issues no write", func(t *testing.T) {
		env := newTestEnv(t)
		seedWithURL(t, env, "article", "https://example.com/a", "")

		cleaned, err := env.contentSvc.CleanupInvalidImageURLs(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 0, cleaned)
	})
}

func TestContentServiceDeleteBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("removes all listed items in one commit", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedItem(t, "one", valueobjects.CategoryID{})
		b := env.seedItem(t, "two", valueobjects.CategoryID{})
		keep := env.seedItem(t, "three", valueobjects.CategoryID{})

		err := env.contentSvc.DeleteBatch(ctx, testUser, []valueobjects.ContentID{a.ID(), b.ID()})
		require.NoError(t, err)

		all, err := env.store.GetAllItems(ctx, testUser, 0)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].ID().Equals(keep.ID()))
	})
}
