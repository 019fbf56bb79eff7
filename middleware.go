package sessionjwt

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type contextKey string

const (
	contextKeyTokenPayload        = contextKey("tokenPayload")
	contextKeyRefreshTokenPayload = contextKey("refreshTokenPayload")
	contextKeyUserID              = contextKey("userID")
)

// TokenPayloadFromContext returns the decoded (unverified) access token
// claims attached by ExtractClaims.
func TokenPayloadFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(contextKeyTokenPayload).(*SessionClaims)
	return claims, ok
}

// RefreshTokenPayloadFromContext returns the decoded (unverified) refresh
// token claims attached by ExtractClaims.
func RefreshTokenPayloadFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(contextKeyRefreshTokenPayload).(*SessionClaims)
	return claims, ok
}

// UserIDFromContext returns the user id projected from whichever token
// cookie was present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	return userID, ok
}

// ExtractClaims decodes the access and refresh token cookies WITHOUT
// verification and attaches the claims and user id to the request
// context for handler convenience. Absent or malformed tokens are
// silently skipped; this middleware never blocks a request. It must run
// before the security handlers so they can reuse the decoded claims, but
// the gates do not depend on it for correctness.
func (s *Service) ExtractClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if claims := s.decodeCookie(r, s.config.AccessCookieName); claims != nil {
			ctx = context.WithValue(ctx, contextKeyTokenPayload, claims)
			ctx = context.WithValue(ctx, contextKeyUserID, claims.UserID)
		}
		if claims := s.decodeCookie(r, s.config.RefreshCookieName); claims != nil {
			ctx = context.WithValue(ctx, contextKeyRefreshTokenPayload, claims)
			ctx = context.WithValue(ctx, contextKeyUserID, claims.UserID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) decodeCookie(r *http.Request, cookieName string) *SessionClaims {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := s.codec.Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// RequireToken guards a route with the access token gate. Any denial is a
// generic 401; the logout-all denial carries the distinct user-facing
// message while keeping the same status.
func (s *Service) RequireToken(next http.Handler) http.Handler {
	return s.requireCredential(s.NewSecurityHandler(s.config.AccessCookieName, false), next)
}

// RequireRefreshToken guards a route with the refresh token gate.
func (s *Service) RequireRefreshToken(next http.Handler) http.Handler {
	return s.requireCredential(s.NewSecurityHandler(s.config.RefreshCookieName, true), next)
}

func (s *Service) requireCredential(handler SecurityHandler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := handler(r)
		if !decision.Allowed {
			message := "Unauthorized"
			if decision.Reason == DenyLoggedOutAll {
				message = "You were logged out from all devices."
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cookie builds the transport cookie for a signed token with the
// configured security flags. Callers pass the decoded absolute expiry of
// the token they are attaching; for a rotated refresh token that is the
// preserved original expiry.
func (s *Service) Cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		Domain:   s.config.CookieDomain,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
}
