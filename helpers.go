package sessionjwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// toMapClaims converts SessionClaims to jwt.MapClaims.
func toMapClaims(claims SessionClaims) jwt.MapClaims {
	return jwt.MapClaims{
		"userId": claims.UserID,
		"fam":    claims.Family,
		"gen":    claims.Generation,
		"iat":    claims.IssuedAt.Unix(),
		"exp":    claims.ExpiresAt.Unix(),
	}
}

// mapToSessionClaims converts JWT claims back to SessionClaims.
func mapToSessionClaims(claims jwt.MapClaims) (*SessionClaims, error) {
	userID, ok := claims["userId"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid userId claim: expected string")
	}

	family, ok := claims["fam"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid fam claim: expected string")
	}

	gen, ok := claims["gen"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid gen claim: expected number")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat claim: expected number")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp claim: expected number")
	}

	return &SessionClaims{
		UserID:     userID,
		Family:     family,
		Generation: int(gen),
		IssuedAt:   time.Unix(int64(iat), 0),
		ExpiresAt:  time.Unix(int64(exp), 0),
	}, nil
}
