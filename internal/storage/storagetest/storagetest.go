// Package storagetest holds behaviour checks shared by every storage backend.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoglobe/internal/storage"
)

// Run exercises a backend. newBackend must return an initialized backend.
func Run(t *testing.T, newBackend func(t *testing.T) storage.Backend) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		b := newBackend(t)
		values, ok, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, values)
	})

	t.Run("round trip keeps order", func(t *testing.T) {
		b := newBackend(t)
		want := []string{"Peru", "France", "Japan", "Côte d'Ivoire"}
		require.NoError(t, b.Save(ctx, storage.DefaultKey, want))

		got, ok, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Save(ctx, storage.DefaultKey, []string{"A", "B"}))
		require.NoError(t, b.Save(ctx, storage.DefaultKey, []string{"C"}))

		got, ok, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"C"}, got)
	})

	t.Run("empty list is present", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Save(ctx, storage.DefaultKey, nil))

		got, ok, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Save(ctx, storage.DefaultKey, []string{"A"}))
		require.NoError(t, b.Save(ctx, "other", []string{"B"}))
		require.NoError(t, b.Delete(ctx, storage.DefaultKey))

		_, ok, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.False(t, ok)

		got, ok, err := b.Load(ctx, "other")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"B"}, got)

		// deleting a missing key is fine
		require.NoError(t, b.Delete(ctx, storage.DefaultKey))
	})

	t.Run("caller mutations do not leak", func(t *testing.T) {
		b := newBackend(t)
		in := []string{"A", "B"}
		require.NoError(t, b.Save(ctx, storage.DefaultKey, in))
		in[0] = "Z"

		got, _, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, got)
		got[1] = "Y"

		again, _, err := b.Load(ctx, storage.DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, again)
	})
}
