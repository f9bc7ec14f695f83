package valueobjects

import (
	"strings"
	"testing"

	"stash-backend/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryName(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		name, err := NewCategoryName("  Recipes  ")
		require.NoError(t, err)
		assert.Equal(t, "Recipes", name.Display())
		assert.Equal(t, "recipes", name.Normalized())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := NewCategoryName("")
		assert.Error(t, err)
	})

	t.Run("rejects whitespace-only input", func(t *testing.T) {
		_, err := NewCategoryName("   \t ")
		assert.Error(t, err)
	})

	t.Run("rejects names over the configured maximum", func(t *testing.T) {
		_, err := NewCategoryName(strings.Repeat("x", 101))
		assert.Error(t, err)
	})

	t.Run("keeps the display casing", func(t *testing.T) {
		name, err := NewCategoryName("ReCiPes")
		require.NoError(t, err)
		assert.Equal(t, "ReCiPes", name.Display())
		assert.Equal(t, "recipes", name.Normalized())
	})
}

func TestCategoryNameEqualsFold(t *testing.T) {
	a, err := NewCategoryName("recipes")
	require.NoError(t, err)
	b, err := NewCategoryName(" Recipes ")
	require.NoError(t, err)
	c, err := NewCategoryName("Travel")
	require.NoError(t, err)

	assert.True(t, a.EqualsFold(b))
	assert.True(t, b.EqualsFold(a))
	assert.False(t, a.EqualsFold(c))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "recipes", NormalizeKey("  Recipes "))
	assert.Equal(t, "", NormalizeKey("   "))
	assert.Equal(t, "misc", NormalizeKey("MISC"))
}

func TestIsMiscAlias(t *testing.T) {
	cfg := config.DefaultDomainConfig()

	for _, raw := range []string{"Misc", "miscellaneous", " Other ", "Uncategorized"} {
		name, err := NewCategoryName(raw)
		require.NoError(t, err)
		assert.True(t, name.IsMiscAlias(cfg), raw)
	}

	name, err := NewCategoryName("Recipes")
	require.NoError(t, err)
	assert.False(t, name.IsMiscAlias(cfg))
}
