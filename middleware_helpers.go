package bearer

import (
	"context"

	"github.com/goliatone/go-bearer/middleware/jwtware"
)

// ContextEnricherAdapter adapts jwtware.AuthClaims to bearer.AuthClaims and
// stores the claims in the standard context for downstream handlers.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}
