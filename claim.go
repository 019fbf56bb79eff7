package sessionjwt

import (
	"time"
)

// SessionClaims is the payload carried by every session token. Access and
// refresh tokens share this shape; they differ only in TTL at mint time
// and in which cookie slot they travel.
//
// Fields:
//   - UserID: Opaque user identifier (subject)
//   - Family: Groups every token descended from one login event
//   - Generation: Per-family counter, incremented on every refresh
//   - IssuedAt: Token issuance time
//   - ExpiresAt: Token expiration time
type SessionClaims struct {
	UserID     string    `json:"userId"`
	Family     string    `json:"fam"`
	Generation int       `json:"gen"`
	IssuedAt   time.Time `json:"iat"`
	ExpiresAt  time.Time `json:"exp"`
}

// TokenPair is the result of a login or a rotation: an access token and a
// refresh token minted from the same (user, family, generation) triple,
// independently signed and independently expiring. The pair is transient;
// the caller attaches the strings to transport (cookies) and the core
// never persists them.
type TokenPair struct {
	Token            string    `json:"token"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
