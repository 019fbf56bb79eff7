package sessionjwt

import (
	"errors"
	"net/http"
)

// Decision is the outcome of one security-handler invocation. Reason is
// set only on denial. Claims carries the verified payload on allow, so
// downstream code never has to re-parse the token.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Claims  *SessionClaims
}

// Err maps the decision to the error a caller may surface. Only the
// logout-all denial has a distinguished error; every other denial is
// generic from the outside.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == DenyLoggedOutAll {
		return ErrLoggedOutAllDevices
	}
	return ErrUnauthorized
}

// SecurityHandler decides whether the credential in one cookie slot
// admits the request. Instantiated once per slot (access and refresh) and
// run once per protected endpoint. Safe to call concurrently and
// repeatedly for the same token: all checks are reads, and the only side
// effect (family blacklisting) is idempotent.
type SecurityHandler func(r *http.Request) Decision

func allow(claims *SessionClaims) Decision {
	return Decision{Allowed: true, Claims: claims}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// NewSecurityHandler builds the gate for one cookie slot. isRefreshToken
// selects which pre-decoded request payload to reuse; the gate re-derives
// claims from the raw token when extraction did not run.
//
// Check order: presence, signature/TTL, token blacklist, family
// blacklist, generation match, logout-all epoch. A generation mismatch in
// either direction burns the whole family: a stale generation means a
// superseded refresh token is being replayed, a future one means forged
// or corrupted state, and in both cases the family's chain of trust is
// broken. Signature failures burn the family too when a family id can be
// recovered from the unverified claims.
func (s *Service) NewSecurityHandler(cookieName string, isRefreshToken bool) SecurityHandler {
	return func(r *http.Request) Decision {
		ctx := r.Context()

		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			s.logger.Warnf("%q missing from cookies", cookieName)
			return deny(DenyMissingCredential)
		}
		tokenString := cookie.Value

		if _, err := s.codec.Verify(tokenString); err != nil {
			s.logger.WithError(err).Warnf("a %q token failed signature verification", cookieName)
			// Tamper path: punish presentation of a forged-but-parseable
			// token by burning its claimed family.
			if unverified, decodeErr := s.codec.Decode(tokenString); decodeErr == nil && unverified.Family != "" {
				if blacklistErr := s.store.BlacklistFamily(ctx, unverified.Family); blacklistErr != nil {
					s.logger.WithError(blacklistErr).Error("family not invalidated")
				}
			}
			return deny(DenySignatureInvalid)
		}

		// Reuse claims attached by the extraction middleware when present;
		// re-derive from the verified token otherwise.
		var claims *SessionClaims
		if isRefreshToken {
			claims, _ = RefreshTokenPayloadFromContext(ctx)
		} else {
			claims, _ = TokenPayloadFromContext(ctx)
		}
		if claims == nil {
			claims, err = s.codec.Decode(tokenString)
			if err != nil {
				return deny(DenySignatureInvalid)
			}
		}

		if s.IsTokenBlacklisted(ctx, tokenString) {
			// Terminal: already blacklisted, nothing further to burn.
			s.logger.Warn("blacklisted token used")
			return deny(DenyTokenBlacklisted)
		}

		if s.IsFamilyBlacklisted(ctx, claims.Family) {
			s.logger.Warnf("%q with blacklisted family used", cookieName)
			return deny(DenyFamilyBlacklisted)
		}

		if lastGen := s.LastGeneration(ctx, claims.Family); lastGen != claims.Generation {
			s.logger.Warnf("%q generation mismatch: lastGen=%d gen=%d - burning family", cookieName, lastGen, claims.Generation)
			if err := s.store.BlacklistFamily(ctx, claims.Family); err != nil {
				s.logger.WithError(err).Error("family not invalidated")
			}
			return deny(DenyGenerationMismatch)
		}

		if s.IsIssuedBeforeLogoutAll(ctx, claims, claims.UserID) {
			s.logger.Infof("%q was issued before the user logged out of all devices", cookieName)
			return deny(DenyLoggedOutAll)
		}

		return allow(claims)
	}
}

// IsLoggedOutAllDevices reports whether err is the distinguished
// logout-all denial signal.
func IsLoggedOutAllDevices(err error) bool {
	return errors.Is(err, ErrLoggedOutAllDevices)
}
