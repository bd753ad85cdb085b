package bearer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// TokenFingerprint returns a stable SHA-256 fingerprint of a raw token
// string. The registry keys on fingerprints so revoked token material
// is never retained, and unparseable strings can still be revoked.
func TokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var _ RevocationRegistry = (*MemoryRevocationRegistry)(nil)

// MemoryRevocationRegistry keeps revoked token fingerprints in process
// memory. Inserts and lookups are safe for concurrent use; a lookup
// that starts after a completed Revoke for the same token observes it.
type MemoryRevocationRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewMemoryRevocationRegistry creates an empty registry.
func NewMemoryRevocationRegistry() *MemoryRevocationRegistry {
	return &MemoryRevocationRegistry{
		revoked: make(map[string]time.Time),
	}
}

// Revoke adds the token to the rejection set. Idempotent: revoking an
// already revoked token keeps the original revocation time.
func (r *MemoryRevocationRegistry) Revoke(ctx context.Context, token string) error {
	fp := TokenFingerprint(token)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.revoked[fp]; !ok {
		r.revoked[fp] = time.Now()
	}
	return nil
}

// IsRevoked reports whether the token was previously revoked.
func (r *MemoryRevocationRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	fp := TokenFingerprint(token)

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.revoked[fp]
	return ok, nil
}

// Len returns the number of revoked entries.
func (r *MemoryRevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}

// Purge drops entries revoked more than olderThan ago and returns how
// many were removed. Entries older than the maximum token lifespan are
// safe to drop: the tokens they rejected have expired on their own.
func (r *MemoryRevocationRegistry) Purge(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for fp, revokedAt := range r.revoked {
		if revokedAt.Before(cutoff) {
			delete(r.revoked, fp)
			removed++
		}
	}
	return removed
}
