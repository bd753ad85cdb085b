package bearer

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrAuthenticationFailed is returned for every failed login regardless
// of cause. Unknown users and wrong passwords are indistinguishable so
// callers cannot enumerate usernames.
var ErrAuthenticationFailed = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("AUTHENTICATION_FAILED").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned when a password does not
// match its stored verifier.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is cooling down.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode("TOO_MANY_LOGIN_ATTEMPTS").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its expiration.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail decoding or
// signature verification.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is returned for tokens rejected by the revocation
// registry before cryptographic verification.
var ErrTokenRevoked = errors.New("token has been revoked", errors.CategoryAuth).
	WithTextCode("TOKEN_REVOKED").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty inputs where a value is required.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithTextCode("EMPTY_STRING")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
