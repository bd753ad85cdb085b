package bearer

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var _ UserTracker = (*BunUserStore)(nil)

// BunUserStore is a durable credential store backed by a bun database.
type BunUserStore struct {
	db *bun.DB
}

// NewBunUserStore wraps a bun DB handle.
func NewBunUserStore(db *bun.DB) *BunUserStore {
	return &BunUserStore{db: db}
}

// CreateUserTables creates the users table if missing. Intended for
// tests and embedded sqlite deployments; production schemas are
// managed by migrations.
func (s *BunUserStore) CreateUserTables(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// Seed provisions the given users, hashing their passwords. Existing
// usernames are left untouched.
func (s *BunUserStore) Seed(ctx context.Context, seeds []SeedUser) error {
	for _, seed := range seeds {
		exists, err := s.db.NewSelect().
			Model((*User)(nil)).
			Where("?TableAlias.username = ?", seed.Username).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to check seed user")
		}
		if exists {
			continue
		}

		hash, err := HashPassword(seed.Password)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to hash seed password")
		}

		role := seed.Role
		if role == "" {
			role = RoleGuest
		}

		user := &User{
			ID:           uuid.New(),
			Username:     seed.Username,
			Email:        seed.Email,
			Role:         role,
			PasswordHash: hash,
		}

		if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to insert seed user")
		}
	}

	return nil
}

// GetByIdentifier finds a user by exact username.
func (s *BunUserStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	record := &User{}

	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", identifier).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithMetadata(map[string]any{"identifier": identifier})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user")
	}

	return record, nil
}

// TrackAttemptedLogin increments the attempt counter and stamps the
// attempt time.
func (s *BunUserStore) TrackAttemptedLogin(ctx context.Context, user *User) error {
	now := time.Now()
	_, err := s.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"login_attempts" = "login_attempts" + 1,
			"login_attempt_at" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, now, user.ID).Exec(ctx)

	return err
}

// TrackSuccessfulLogin resets the attempt counter and stamps the login.
func (s *BunUserStore) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	// NOTE: raw SQL so login_attempt_at is reset to NULL in one statement.
	loggedInAt := time.Now()
	_, err := s.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}
