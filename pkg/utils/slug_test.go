package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlug(t *testing.T) {
	t.Run("latin title", func(t *testing.T) {
		slug, err := MakeSlug("Hello World!")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(slug, "hello-world-"))
	})

	t.Run("thai letters are preserved", func(t *testing.T) {
		slug, err := MakeSlug("หางาน")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(slug, "หางาน-"))
	})

	t.Run("same title yields distinct slugs", func(t *testing.T) {
		a, err := MakeSlug("Same Title")
		require.NoError(t, err)
		b, err := MakeSlug("Same Title")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("symbols-only title falls back to the suffix", func(t *testing.T) {
		slug, err := MakeSlug("!!! ???")
		require.NoError(t, err)
		assert.Len(t, slug, 6)
	})

	t.Run("long titles are truncated without splitting runes", func(t *testing.T) {
		slug, err := MakeSlug(strings.Repeat("ก", 200))
		require.NoError(t, err)
		parts := strings.Split(slug, "-")
		require.Len(t, parts, 2)
		assert.LessOrEqual(t, len([]rune(parts[0])), 60)
	})
}
