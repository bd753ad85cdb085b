package bearer

import (
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
)

// AuthConfig is a concrete Config. The signing key is process-wide
// state established once at startup; rotating it invalidates every
// outstanding token, so within a process lifetime it never changes.
type AuthConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int // minutes
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
}

var _ Config = AuthConfig{}

func (c AuthConfig) GetSigningKey() string    { return c.SigningKey }
func (c AuthConfig) GetSigningMethod() string { return c.SigningMethod }
func (c AuthConfig) GetContextKey() string    { return c.ContextKey }
func (c AuthConfig) GetTokenExpiration() int  { return c.TokenExpiration }
func (c AuthConfig) GetTokenLookup() string   { return c.TokenLookup }
func (c AuthConfig) GetAuthScheme() string    { return c.AuthScheme }
func (c AuthConfig) GetIssuer() string        { return c.Issuer }
func (c AuthConfig) GetAudience() []string    { return c.Audience }

// LoadConfig populates an AuthConfig from environment variables with
// defaults for everything except the signing key, which must never be
// embedded as a literal and therefore has no fallback.
func LoadConfig() (AuthConfig, error) {
	signingKey := os.Getenv("AUTH_SIGNING_KEY")
	if signingKey == "" {
		return AuthConfig{}, errors.New("AUTH_SIGNING_KEY is required", errors.CategoryBadInput).
			WithTextCode("MISSING_SIGNING_KEY")
	}

	return AuthConfig{
		SigningKey:      signingKey,
		SigningMethod:   firstNonEmpty(os.Getenv("AUTH_SIGNING_METHOD"), "HS256"),
		ContextKey:      firstNonEmpty(os.Getenv("AUTH_CONTEXT_KEY"), "user"),
		TokenExpiration: intFromEnv("AUTH_TOKEN_EXPIRATION_MINUTES", 60),
		TokenLookup:     firstNonEmpty(os.Getenv("AUTH_TOKEN_LOOKUP"), "header:Authorization"),
		AuthScheme:      firstNonEmpty(os.Getenv("AUTH_SCHEME"), "Bearer"),
		Issuer:          firstNonEmpty(os.Getenv("AUTH_ISSUER"), "go-bearer"),
		Audience:        parseCSV(os.Getenv("AUTH_AUDIENCE")),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// intFromEnv reads an int from env var name, falling back to defaultVal when empty or invalid.
func intFromEnv(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// parseCSV splits a comma-separated list and trims spaces; empty entries are skipped.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
