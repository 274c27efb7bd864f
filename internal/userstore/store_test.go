package userstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

func TestMemoryStore_Create(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("creates a user with hashed password", func(t *testing.T) {
		user, err := store.Create(ctx, "alice", "s3cret-pass", []string{models.RoleUser})
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, "s3cret-pass", user.HashedPassword)
		assert.Equal(t, []string{models.RoleUser}, user.Roles)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := store.Create(ctx, "alice", "other-pass", nil)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("empty roles default to user", func(t *testing.T) {
		user, err := store.Create(ctx, "bob", "s3cret-pass", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{models.RoleUser}, user.Roles)
	})
}

func TestMemoryStore_Lookups(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, "alice", "s3cret-pass", nil)
	require.NoError(t, err)

	t.Run("get by username", func(t *testing.T) {
		user, err := store.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("get by id", func(t *testing.T) {
		user, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("missing lookups return ErrNotFound", func(t *testing.T) {
		_, err := store.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetByID(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		user, err := store.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		user.Username = "mallory"

		again, err := store.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", again.Username)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, "alice", "correct-horse", nil)
	require.NoError(t, err)

	t.Run("valid credentials return the user", func(t *testing.T) {
		user, err := Authenticate(ctx, store, "alice", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password and unknown user return the same error", func(t *testing.T) {
		_, badPass := Authenticate(ctx, store, "alice", "wrong")
		_, noUser := Authenticate(ctx, store, "nobody", "whatever")

		assert.ErrorIs(t, badPass, ErrInvalidCredentials)
		assert.ErrorIs(t, noUser, ErrInvalidCredentials)
		assert.Equal(t, badPass, noUser, "responses must not reveal which accounts exist")
	})
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, EnsureAdmin(ctx, store, "Admin@123456"))

	t.Run("bootstrap admin has both roles", func(t *testing.T) {
		admin, err := store.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, admin.HasRole(models.RoleAdmin))
		assert.True(t, admin.HasRole(models.RoleUser))
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		require.NoError(t, EnsureAdmin(ctx, store, "different-password"))

		// Original password still works
		_, err := Authenticate(ctx, store, "admin", "Admin@123456")
		assert.NoError(t, err)
	})
}
