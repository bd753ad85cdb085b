package bearer

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var _ UserTracker = (*MemoryUserStore)(nil)

// MemoryUserStore is a read-mostly credential store provisioned once
// from a fixed seed set. Records are immutable after load except for
// the login tracking counters.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserStore hashes each seed password and indexes the records
// by username. Usernames are case-sensitive and must be unique.
func NewMemoryUserStore(seeds []SeedUser) (*MemoryUserStore, error) {
	s := &MemoryUserStore{
		users: make(map[string]*User, len(seeds)),
	}

	for _, seed := range seeds {
		if seed.Username == "" {
			return nil, ErrNoEmptyString
		}

		if _, exists := s.users[seed.Username]; exists {
			return nil, errors.New("duplicate seed username", errors.CategoryConflict).
				WithMetadata(map[string]any{"username": seed.Username})
		}

		hash, err := HashPassword(seed.Password)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash seed password")
		}

		role := seed.Role
		if role == "" {
			role = RoleGuest
		}

		now := time.Now()
		s.users[seed.Username] = &User{
			ID:           uuid.New(),
			Username:     seed.Username,
			Email:        seed.Email,
			Role:         role,
			PasswordHash: hash,
			CreatedAt:    &now,
		}
	}

	return s, nil
}

// NewMemoryUserStoreFromUsers indexes already hashed user records,
// e.g. loaded from a durable store at startup.
func NewMemoryUserStoreFromUsers(users []*User) (*MemoryUserStore, error) {
	s := &MemoryUserStore{
		users: make(map[string]*User, len(users)),
	}

	for _, user := range users {
		if user == nil || user.Username == "" {
			return nil, ErrNoEmptyString
		}
		if _, exists := s.users[user.Username]; exists {
			return nil, errors.New("duplicate username", errors.CategoryConflict).
				WithMetadata(map[string]any{"username": user.Username})
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		s.users[user.Username] = user
	}

	return s, nil
}

// GetByIdentifier returns a copy of the record for the given username.
func (s *MemoryUserStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	s.mu.RLock()
	user, ok := s.users[identifier]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.New("user not found", errors.CategoryNotFound).
			WithCode(errors.CodeNotFound).
			WithMetadata(map[string]any{"identifier": identifier})
	}

	clone := *user
	return &clone, nil
}

// TrackAttemptedLogin increments the attempt counter for cooldown
// bookkeeping.
func (s *MemoryUserStore) TrackAttemptedLogin(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[user.Username]
	if !ok {
		return nil
	}

	now := time.Now()
	record.LoginAttempts++
	record.LoginAttemptAt = &now
	return nil
}

// TrackSuccessfulLogin resets the attempt counter and stamps the login.
func (s *MemoryUserStore) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[user.Username]
	if !ok {
		return nil
	}

	now := time.Now()
	record.LoginAttempts = 0
	record.LoginAttemptAt = nil
	record.LoggedInAt = &now
	return nil
}
