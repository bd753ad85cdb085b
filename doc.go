// Package bearer provides credential authentication and bearer token
// lifecycle management (login, logout, validation) for HTTP services.
//
// Token lifecycle:
//   - Auther verifies credentials through an IdentityProvider and issues
//     signed, time-bounded JWTs. Login failures are indistinguishable to
//     callers so accounts cannot be enumerated.
//   - Logout revokes the presented token through a RevocationRegistry.
//     Registries are keyed on SHA-256 fingerprints of the raw token, so
//     revoked token material is never retained and arbitrary strings can
//     be revoked. Memory and redis backed registries are included.
//   - ValidateToken consults the registry before any cryptographic work
//     and fails closed when the registry cannot be reached.
//
// Credential stores:
//   - MemoryUserStore holds a fixed seed set for embedded deployments and
//     tests. BunUserStore persists users through a Bun database handle.
//     Both track login attempts so UserProvider can throttle brute force
//     attempts with a cooldown window.
//
// HTTP surface:
//   - APIController exposes login and logout as JSON routes using a
//     uniform response envelope. The middleware/jwtware package guards
//     protected routes, checking revocation and role requirements before
//     handlers run.
package bearer
