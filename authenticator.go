package bearer

import (
	"context"
	"reflect"
)

// MaxTokenLength caps the raw token size accepted by Logout and
// ValidateToken so adversarial input cannot grow the registry or the
// parser workload without bound.
const MaxTokenLength = 8 << 10

// LoginSuccessMessage is the human readable message on a successful login.
const LoginSuccessMessage = "Login successful."

type Auther struct {
	provider        IdentityProvider
	revocations     RevocationRegistry
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
	tokenValidator  TokenValidator
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		revocations:     NewMemoryRevocationRegistry(),
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithRevocationRegistry swaps the default in-memory registry, e.g.
// for the redis backed implementation.
func (s *Auther) WithRevocationRegistry(registry RevocationRegistry) *Auther {
	if registry != nil {
		s.revocations = registry
	}
	return s
}

// WithTokenValidator sets a custom token validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and issues a fresh bearer token. Every
// failure surfaces as ErrAuthenticationFailed: the caller cannot tell
// an unknown user from a wrong password. No server side session is
// created; the token is the only artifact.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	var err error
	var identity Identity

	if identity, err = s.provider.VerifyIdentity(ctx, identifier, password); err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, ErrAuthenticationFailed
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrAuthenticationFailed
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return nil, ErrAuthenticationFailed
	}

	return &AuthResult{
		Token:    token,
		Username: identity.Username(),
		Role:     identity.Role(),
		Message:  LoginSuccessMessage,
	}, nil
}

// Logout revokes the token unconditionally. Empty tokens are a no-op,
// re-revoking is a no-op, and registry failures are logged rather than
// surfaced: Logout always succeeds from the caller's point of view.
func (s *Auther) Logout(ctx context.Context, token string) {
	if token == "" || len(token) > MaxTokenLength {
		return
	}

	if err := s.revocations.Revoke(ctx, token); err != nil {
		s.logger.Warn("Logout failed to record revocation", "error", err)
	}
}

// ValidateToken reports whether the token is currently acceptable. The
// revocation registry is consulted before any cryptographic work since
// a revoked token is rejected regardless of its signature. Any internal
// failure collapses to false; the caller never learns whether the token
// was revoked, expired, or malformed.
func (s *Auther) ValidateToken(ctx context.Context, token string) bool {
	if token == "" || len(token) > MaxTokenLength {
		return false
	}

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		// fail closed: if we cannot prove the token was not revoked,
		// reject it
		s.logger.Warn("ValidateToken revocation lookup error", "error", err)
		return false
	}
	if revoked {
		return false
	}

	if _, err := s.validator().Validate(token); err != nil {
		s.logger.Debug("ValidateToken rejected token", "error", err)
		return false
	}

	return true
}

// ClaimsFromToken validates the token and returns its claims. Unlike
// ValidateToken it surfaces the rejection reason, for internal callers
// such as the route middleware.
func (s *Auther) ClaimsFromToken(token string) (AuthClaims, error) {
	if token == "" || len(token) > MaxTokenLength {
		return nil, ErrTokenMalformed
	}
	return s.validator().Validate(token)
}

// IdentityFromClaims resolves the stored identity behind validated claims.
func (s *Auther) IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.UserID())
	if err != nil {
		s.logger.Error("IdentityFromClaims find identity by identifier", "error", err)
		return nil, err
	}

	return identity, nil
}

func (s *Auther) validator() TokenValidator {
	if s.tokenValidator != nil {
		return s.tokenValidator
	}
	return s.tokenService
}

var _ Authenticator = (*Auther)(nil)
