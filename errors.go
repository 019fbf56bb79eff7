package sessionjwt

import "errors"

// Sentinel errors surfaced by the codec and the service. Every
// authorization failure collapses to a generic deny at the transport
// layer; ErrLoggedOutAllDevices is the one failure callers may surface
// with a distinct user-facing message.
var (
	// ErrUnauthorized is the uniform denial for every gate rejection
	// except logout-all. It deliberately carries no detail about which
	// check failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSignatureInvalid means the token failed cryptographic verification
	// or could not be parsed as a signed token.
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenExpired means the token parsed and verified but its TTL has
	// elapsed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrLoggedOutAllDevices means the token was issued before the user's
	// recorded logout-all epoch.
	ErrLoggedOutAllDevices = errors.New("you were logged out from all devices")
)

// DenyReason identifies which gate check rejected a credential. Reasons
// are logged for diagnosis but never leaked into response bodies, so
// revocation state cannot be probed from the outside.
type DenyReason string

const (
	DenyNone               DenyReason = ""
	DenyMissingCredential  DenyReason = "missing_credential"
	DenySignatureInvalid   DenyReason = "signature_invalid"
	DenyTokenBlacklisted   DenyReason = "token_blacklisted"
	DenyFamilyBlacklisted  DenyReason = "family_blacklisted"
	DenyGenerationMismatch DenyReason = "generation_mismatch"
	DenyLoggedOutAll       DenyReason = "logged_out_all_devices"
)
