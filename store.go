package sessionjwt

import (
	"context"
	"time"
)

// RevocationStore is the shared mutable state behind the session core:
// blacklisted tokens, blacklisted families, the last accepted generation
// per family, and the per-user logout-all epoch. Implementations perform
// single-key reads and writes only; no multi-key transactions are
// required and none may be assumed. All operations are idempotent.
//
// Errors are returned raw. The Service layers fail-closed semantics on
// top: a failed blacklist check is treated as blacklisted, never as
// clean.
type RevocationStore interface {
	// IsTokenBlacklisted reports whether the raw token string has been
	// explicitly invalidated.
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	// IsFamilyBlacklisted reports whether the whole token family has been
	// invalidated.
	IsFamilyBlacklisted(ctx context.Context, family string) (bool, error)

	// BlacklistToken invalidates a single raw token string.
	BlacklistToken(ctx context.Context, token string) error

	// BlacklistFamily invalidates every token of a family.
	BlacklistFamily(ctx context.Context, family string) error

	// LastGeneration returns the last accepted generation for a family.
	// ok is false when the family has no record.
	LastGeneration(ctx context.Context, family string) (gen int, ok bool, err error)

	// SetLastGeneration records the last accepted generation for a family.
	// Plain overwrite; the recorded value only increases via explicit
	// rotation by well-behaved callers.
	SetLastGeneration(ctx context.Context, family string, gen int) error

	// RecordLogoutAll sets the user's logout-all epoch to now. Tokens
	// issued before it are invalid.
	RecordLogoutAll(ctx context.Context, userID string) error

	// LogoutAllEpoch returns the user's logout-all epoch. ok is false when
	// the user never logged out everywhere.
	LogoutAllEpoch(ctx context.Context, userID string) (epoch time.Time, ok bool, err error)
}
