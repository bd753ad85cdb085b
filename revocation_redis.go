package bearer

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

const defaultRevocationPrefix = "bearer:revoked:"

var _ RevocationRegistry = (*RedisRevocationRegistry)(nil)

// RedisRevocationRegistry stores revoked token fingerprints in redis.
// Entries carry a TTL equal to the maximum token lifespan, so the
// registry sweeps itself: by the time an entry lapses the token it
// rejected has already expired.
type RedisRevocationRegistry struct {
	client    redis.UniversalClient
	keyPrefix string
	retention time.Duration
}

// NewRedisRevocationRegistry wraps a redis client. retention must be at
// least the longest token lifespan the service issues.
func NewRedisRevocationRegistry(client redis.UniversalClient, retention time.Duration) *RedisRevocationRegistry {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisRevocationRegistry{
		client:    client,
		keyPrefix: defaultRevocationPrefix,
		retention: retention,
	}
}

// WithKeyPrefix overrides the redis key namespace.
func (r *RedisRevocationRegistry) WithKeyPrefix(prefix string) *RedisRevocationRegistry {
	if prefix != "" {
		r.keyPrefix = prefix
	}
	return r
}

// Revoke marks the token as rejected. Re-revoking refreshes the TTL,
// which only ever extends rejection, never shortens it.
func (r *RedisRevocationRegistry) Revoke(ctx context.Context, token string) error {
	key := r.keyPrefix + TokenFingerprint(token)
	if err := r.client.Set(ctx, key, 1, r.retention).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to record token revocation")
	}
	return nil
}

// IsRevoked reports whether the token is in the rejection set.
func (r *RedisRevocationRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := r.keyPrefix + TokenFingerprint(token)
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "failed to check token revocation")
	}
	return n > 0, nil
}

// NewRedisClient returns a configured go-redis client from a URL
// (e.g., redis://localhost:6379/0) after verifying connectivity.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url", errors.CategoryBadInput)
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid redis url")
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to reach redis")
	}

	return client, nil
}
