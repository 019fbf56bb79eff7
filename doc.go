// Package sessionjwt implements the JWT session core for the stockbase API:
// token-pair issuance, rotation-on-refresh with per-family generation
// counters, multi-layer revocation (token blacklist, family blacklist,
// per-user logout-all epoch) backed by a shared key-value store, and the
// security handlers that gate protected requests.
//
// Features:
// - Creation and rotation of access/refresh token pairs (HMAC signed)
// - Family/generation tracking to detect reuse of superseded tokens
// - Fail-closed revocation checks against Redis (or an in-memory store)
// - Cookie extraction middleware and per-cookie security handlers
package sessionjwt
