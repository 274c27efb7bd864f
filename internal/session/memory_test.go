package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

func TestMemoryStore_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	t.Run("creates a fresh initial session", func(t *testing.T) {
		sess, err := store.GetOrCreate(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", sess.ID)
		assert.Equal(t, models.StateInitial, sess.State)
		assert.NotNil(t, sess.CollectedParams)
		assert.NotNil(t, sess.Config)
	})

	t.Run("returns the existing session on repeat access", func(t *testing.T) {
		sess, err := store.GetOrCreate(ctx, "s1")
		require.NoError(t, err)
		sess.State = models.StateRegion
		require.NoError(t, store.Put(ctx, sess))

		again, err := store.GetOrCreate(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, models.StateRegion, again.State)
	})
}

func TestMemoryStore_Get(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	t.Run("missing session returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		sess := models.NewSession("s2")
		sess.State = models.StateConfirmation
		sess.Region = "eastus"
		require.NoError(t, store.Put(ctx, sess))

		got, err := store.Get(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, models.StateConfirmation, got.State)
		assert.Equal(t, "eastus", got.Region)
		assert.False(t, got.LastActivity.IsZero())
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	require.NoError(t, store.Put(ctx, models.NewSession("s3")))

	require.NoError(t, store.Delete(ctx, "s3"))
	_, err := store.Get(ctx, "s3")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "s3"), ErrNotFound)
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	sess := models.NewSession("s4")
	sess.State = models.StateError
	sess.Region = "westus2"
	require.NoError(t, store.Put(ctx, sess))

	fresh, err := store.Reset(ctx, "s4")
	require.NoError(t, err)
	assert.Equal(t, models.StateInitial, fresh.State)
	assert.Empty(t, fresh.Region)
	assert.Equal(t, "s4", fresh.ID)
}

func TestMemoryStore_IdleExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(50 * time.Millisecond)

	sess := models.NewSession("s5")
	sess.State = models.StateConfirmation
	require.NoError(t, store.Put(ctx, sess))

	t.Run("fresh session is returned as-is", func(t *testing.T) {
		got, err := store.Get(ctx, "s5")
		require.NoError(t, err)
		assert.Equal(t, models.StateConfirmation, got.State)
	})

	t.Run("idle session resets in place instead of vanishing", func(t *testing.T) {
		time.Sleep(80 * time.Millisecond)

		got, err := store.Get(ctx, "s5")
		require.NoError(t, err)
		assert.Equal(t, models.StateInitial, got.State)
		assert.Equal(t, "s5", got.ID)
	})

	t.Run("GetOrCreate also resets stale sessions", func(t *testing.T) {
		sess, err := store.GetOrCreate(ctx, "s6")
		require.NoError(t, err)
		sess.State = models.StateRegion
		require.NoError(t, store.Put(ctx, sess))

		time.Sleep(80 * time.Millisecond)

		again, err := store.GetOrCreate(ctx, "s6")
		require.NoError(t, err)
		assert.Equal(t, models.StateInitial, again.State)
	})
}

func TestMemoryStore_Len(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	assert.Equal(t, 0, store.Len())

	_, err := store.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	_, err = store.GetOrCreate(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}
