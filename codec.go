package sessionjwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum length of the shared signing secret.
const minSecretLength = 64

// Codec signs and parses session tokens with an HMAC shared secret. It is
// a pure component: no clock state beyond reading time.Now at encode
// time, and no store interaction.
type Codec struct {
	secret        []byte
	signingMethod jwt.SigningMethod
}

// NewCodec creates a Codec from the shared signing secret.
func NewCodec(secret string) (*Codec, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", minSecretLength)
	}
	return &Codec{
		secret:        []byte(secret),
		signingMethod: jwt.SigningMethodHS256,
	}, nil
}

// Encode stamps the payload with IssuedAt = now and ExpiresAt = now + ttl,
// then signs it. The caller's IssuedAt/ExpiresAt fields are overwritten.
func (c *Codec) Encode(payload SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	payload.IssuedAt = now
	payload.ExpiresAt = now.Add(ttl)
	return c.EncodeClaims(payload)
}

// EncodeClaims signs the payload exactly as given, preserving its
// IssuedAt and ExpiresAt. Rotation uses this to keep the refresh token's
// original absolute expiry.
func (c *Codec) EncodeClaims(payload SessionClaims) (string, error) {
	if !payload.ExpiresAt.After(payload.IssuedAt) {
		return "", fmt.Errorf("payload expiry %v is not after issuance %v", payload.ExpiresAt, payload.IssuedAt)
	}
	token := jwt.NewWithClaims(c.signingMethod, toMapClaims(payload))
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode parses a token WITHOUT verifying its signature and returns the
// claims, or an error on malformed input. Output of Decode is never
// authorization evidence; it exists so claims can be attached to requests
// early for logging and handler convenience. The security handlers always
// run Verify before granting access.
func (c *Codec) Decode(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("malformed token claims")
	}
	return mapToSessionClaims(mapClaims)
}

// Verify performs the full cryptographic and TTL check and returns the
// claims. Failures are ErrTokenExpired for elapsed TTLs and
// ErrSignatureInvalid for everything else (bad signature, foreign or
// "none" algorithm, unparseable input).
func (c *Codec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != c.signingMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrSignatureInvalid)
	}

	claims, err := mapToSessionClaims(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return claims, nil
}
