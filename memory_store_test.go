package bearer_test

import (
	"context"
	"testing"

	bearer "github.com/goliatone/go-bearer"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewMemoryUserStore(t *testing.T) {
	t.Run("seeds users with hashed passwords", func(t *testing.T) {
		store, err := bearer.NewMemoryUserStore([]bearer.SeedUser{
			{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: bearer.RoleAdmin},
		})

		assert.NoError(t, err)

		user, err := store.GetByIdentifier(context.Background(), "admin")
		assert.NoError(t, err)
		assert.Equal(t, "admin", user.Username)
		assert.Equal(t, bearer.RoleAdmin, user.Role)
		assert.NotEqual(t, "admin123", user.PasswordHash)
		assert.NoError(t, bearer.ComparePasswordAndHash("admin123", user.PasswordHash))
	})

	t.Run("defaults missing role to guest", func(t *testing.T) {
		store, err := bearer.NewMemoryUserStore([]bearer.SeedUser{
			{Username: "visitor", Password: "pass1234"},
		})

		assert.NoError(t, err)

		user, err := store.GetByIdentifier(context.Background(), "visitor")
		assert.NoError(t, err)
		assert.Equal(t, bearer.RoleGuest, user.Role)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		store, err := bearer.NewMemoryUserStore([]bearer.SeedUser{
			{Username: "", Password: "pass1234"},
		})

		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		store, err := bearer.NewMemoryUserStore([]bearer.SeedUser{
			{Username: "admin", Password: "pass1234"},
			{Username: "admin", Password: "other999"},
		})

		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestMemoryUserStore_GetByIdentifier(t *testing.T) {
	hash, err := bearer.HashPassword("pass1234")
	assert.NoError(t, err)

	store, err := bearer.NewMemoryUserStoreFromUsers([]*bearer.User{
		{Username: "admin", Role: bearer.RoleAdmin, PasswordHash: hash},
	})
	assert.NoError(t, err)

	t.Run("unknown identifier yields not found", func(t *testing.T) {
		user, err := store.GetByIdentifier(context.Background(), "nobody")

		assert.Nil(t, user)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		user, err := store.GetByIdentifier(context.Background(), "Admin")

		assert.Nil(t, user)
		assert.Error(t, err)
	})

	t.Run("returns a copy", func(t *testing.T) {
		user, err := store.GetByIdentifier(context.Background(), "admin")
		assert.NoError(t, err)

		user.Role = bearer.RoleGuest

		again, err := store.GetByIdentifier(context.Background(), "admin")
		assert.NoError(t, err)
		assert.Equal(t, bearer.RoleAdmin, again.Role)
	})

	t.Run("assigns an id to pre hashed records", func(t *testing.T) {
		user, err := store.GetByIdentifier(context.Background(), "admin")
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
	})
}

func TestMemoryUserStore_Tracking(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *bearer.MemoryUserStore {
		t.Helper()
		hash, err := bearer.HashPassword("pass1234")
		assert.NoError(t, err)
		store, err := bearer.NewMemoryUserStoreFromUsers([]*bearer.User{
			{Username: "admin", Role: bearer.RoleAdmin, PasswordHash: hash},
		})
		assert.NoError(t, err)
		return store
	}

	t.Run("attempted login increments counter", func(t *testing.T) {
		store := newStore(t)
		user, err := store.GetByIdentifier(ctx, "admin")
		assert.NoError(t, err)

		assert.NoError(t, store.TrackAttemptedLogin(ctx, user))
		assert.NoError(t, store.TrackAttemptedLogin(ctx, user))

		updated, err := store.GetByIdentifier(ctx, "admin")
		assert.NoError(t, err)
		assert.Equal(t, 2, updated.LoginAttempts)
		assert.NotNil(t, updated.LoginAttemptAt)
	})

	t.Run("successful login resets counter", func(t *testing.T) {
		store := newStore(t)
		user, err := store.GetByIdentifier(ctx, "admin")
		assert.NoError(t, err)

		assert.NoError(t, store.TrackAttemptedLogin(ctx, user))
		assert.NoError(t, store.TrackSuccessfulLogin(ctx, user))

		updated, err := store.GetByIdentifier(ctx, "admin")
		assert.NoError(t, err)
		assert.Equal(t, 0, updated.LoginAttempts)
		assert.Nil(t, updated.LoginAttemptAt)
		assert.NotNil(t, updated.LoggedInAt)
	})

	t.Run("tracking an unknown user is a no-op", func(t *testing.T) {
		store := newStore(t)

		assert.NoError(t, store.TrackAttemptedLogin(ctx, &bearer.User{Username: "ghost"}))
		assert.NoError(t, store.TrackSuccessfulLogin(ctx, &bearer.User{Username: "ghost"}))
	})
}
