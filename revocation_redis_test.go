package bearer_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	bearer "github.com/goliatone/go-bearer"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return mr, client
}

func TestRedisRevocationRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token is not revoked", func(t *testing.T) {
		_, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Hour)

		revoked, err := registry.IsRevoked(ctx, "never-seen")

		assert.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked token is revoked", func(t *testing.T) {
		_, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Hour)

		assert.NoError(t, registry.Revoke(ctx, "token-1"))

		revoked, err := registry.IsRevoked(ctx, "token-1")
		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		_, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Hour)

		assert.NoError(t, registry.Revoke(ctx, "token-1"))
		assert.NoError(t, registry.Revoke(ctx, "token-1"))

		revoked, err := registry.IsRevoked(ctx, "token-1")
		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("entries expire after the retention window", func(t *testing.T) {
		mr, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Minute)

		assert.NoError(t, registry.Revoke(ctx, "token-1"))

		mr.FastForward(2 * time.Minute)

		revoked, err := registry.IsRevoked(ctx, "token-1")
		assert.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("stores fingerprints not token material", func(t *testing.T) {
		mr, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Hour)

		assert.NoError(t, registry.Revoke(ctx, "super-secret-token"))

		keys := mr.Keys()
		assert.Len(t, keys, 1)
		assert.NotContains(t, keys[0], "super-secret-token")
		assert.Contains(t, keys[0], bearer.TokenFingerprint("super-secret-token"))
	})

	t.Run("custom key prefix", func(t *testing.T) {
		mr, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Hour).
			WithKeyPrefix("custom:deny:")

		assert.NoError(t, registry.Revoke(ctx, "token-1"))

		keys := mr.Keys()
		assert.Len(t, keys, 1)
		assert.Contains(t, keys[0], "custom:deny:")
	})

	t.Run("lookup fails when the backend is down", func(t *testing.T) {
		mr, client := newTestRedis(t)
		registry := bearer.NewRedisRevocationRegistry(client, time.Hour)

		mr.Close()

		_, err := registry.IsRevoked(ctx, "token-1")
		assert.Error(t, err)
	})
}

func TestNewRedisClient(t *testing.T) {
	t.Run("connects with a valid URL", func(t *testing.T) {
		mr, _ := newTestRedis(t)

		client, err := bearer.NewRedisClient("redis://" + mr.Addr())

		assert.NoError(t, err)
		assert.NotNil(t, client)
		_ = client.Close()
	})

	t.Run("rejects a malformed URL", func(t *testing.T) {
		client, err := bearer.NewRedisClient("not-a-redis-url")

		assert.Error(t, err)
		assert.Nil(t, client)
	})
}
