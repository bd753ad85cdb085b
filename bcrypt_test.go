package bearer_test

import (
	"testing"

	bearer "github.com/goliatone/go-bearer"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "Unicode password",
			password: "pässwörd-日本語",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := bearer.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, hash)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "securePassword123!"
	hash, err := bearer.HashPassword(password)
	assert.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		assert.NoError(t, bearer.ComparePasswordAndHash(password, hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := bearer.ComparePasswordAndHash("not-the-password", hash)

		assert.Error(t, err)
		assert.ErrorIs(t, err, bearer.ErrMismatchedHashAndPassword)
	})

	t.Run("garbage hash", func(t *testing.T) {
		err := bearer.ComparePasswordAndHash(password, "not-a-bcrypt-hash")

		assert.Error(t, err)
	})

	t.Run("hashing twice produces different hashes", func(t *testing.T) {
		other, err := bearer.HashPassword(password)

		assert.NoError(t, err)
		assert.NotEqual(t, hash, other)
		assert.NoError(t, bearer.ComparePasswordAndHash(password, other))
	})
}

func TestRandomPasswordHash(t *testing.T) {
	t.Run("never matches any candidate password", func(t *testing.T) {
		hash := bearer.RandomPasswordHash()

		assert.NotEmpty(t, hash)
		assert.Error(t, bearer.ComparePasswordAndHash("anything", hash))
	})
}
