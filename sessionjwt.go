package sessionjwt

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service is the token lifecycle manager: it mints and rotates token
// pairs and orchestrates revocation queries and writes against the
// injected RevocationStore. Safe for concurrent use; the store is the
// only shared mutable state and is accessed one key at a time.
type Service struct {
	config Config
	codec  *Codec
	store  RevocationStore
	logger *logrus.Logger
}

// NewService creates a session service from a validated configuration, a
// revocation store handle, and a logger. A nil logger is replaced with
// the logrus standard logger.
func NewService(config Config, store RevocationStore, logger *logrus.Logger) (*Service, error) {
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("revocation store cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	codec, err := NewCodec(config.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize codec: %w", err)
	}

	return &Service{
		config: config,
		codec:  codec,
		store:  store,
		logger: logger,
	}, nil
}

// Codec exposes the service's token codec.
func (s *Service) Codec() *Codec { return s.codec }

// Config returns the service configuration.
func (s *Service) Config() Config { return s.config }

// CreateTokenPair mints a token pair for a fresh family at generation 0.
// Called at login. Pure creation; no store interaction.
func (s *Service) CreateTokenPair(userID string) (*TokenPair, error) {
	return s.CreateTokenPairForFamily(userID, uuid.NewString(), 0)
}

// CreateTokenPairForFamily mints a token pair for an explicit family and
// generation. Both tokens share the (user, family, generation) triple but
// are independently signed with their own TTLs.
func (s *Service) CreateTokenPairForFamily(userID, family string, gen int) (*TokenPair, error) {
	if family == "" {
		return nil, fmt.Errorf("family cannot be empty")
	}
	if gen < 0 {
		return nil, fmt.Errorf("generation must be non-negative")
	}

	payload := SessionClaims{
		UserID:     userID,
		Family:     family,
		Generation: gen,
	}

	token, err := s.codec.Encode(payload, s.config.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.codec.Encode(payload, s.config.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	accessClaims, err := s.codec.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode freshly signed access token: %w", err)
	}
	refreshClaims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode freshly signed refresh token: %w", err)
	}

	return &TokenPair{
		Token:            token,
		RefreshToken:     refreshToken,
		ExpiresAt:        accessClaims.ExpiresAt,
		RefreshExpiresAt: refreshClaims.ExpiresAt,
	}, nil
}

// RefreshTokenPair rotates a pair from the presented refresh payload. The
// new access token carries a brand-new issuance and expiry at the access
// TTL; the new refresh token keeps the incoming token's IssuedAt and
// ExpiresAt, so the family's absolute refresh expiry never extends past
// the original login. Only the generation stamp moves, by exactly one.
//
// Pure function: the caller persists the new generation through
// SetLastGeneration once the rotated pair has actually been handed out.
func (s *Service) RefreshTokenPair(refreshPayload SessionClaims) (*TokenPair, error) {
	if refreshPayload.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("refresh payload has no expiry")
	}

	rotated := refreshPayload
	rotated.Generation = refreshPayload.Generation + 1

	token, err := s.codec.Encode(SessionClaims{
		UserID:     rotated.UserID,
		Family:     rotated.Family,
		Generation: rotated.Generation,
	}, s.config.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.codec.EncodeClaims(rotated)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	accessClaims, err := s.codec.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode freshly signed access token: %w", err)
	}

	return &TokenPair{
		Token:            token,
		RefreshToken:     refreshToken,
		ExpiresAt:        accessClaims.ExpiresAt,
		RefreshExpiresAt: rotated.ExpiresAt,
	}, nil
}

// LogoutFamily invalidates every token descended from one login event.
// Single-device logout.
func (s *Service) LogoutFamily(ctx context.Context, family string) error {
	return s.store.BlacklistFamily(ctx, family)
}

// LogoutAllDevices records the user's logout-all epoch; every token
// issued before it becomes invalid regardless of family or generation.
func (s *Service) LogoutAllDevices(ctx context.Context, userID string) error {
	return s.store.RecordLogoutAll(ctx, userID)
}

// BlacklistToken invalidates one raw token string.
func (s *Service) BlacklistToken(ctx context.Context, token string) error {
	return s.store.BlacklistToken(ctx, token)
}

// SetLastGeneration records the accepted generation for a family after a
// rotation has been handed out.
func (s *Service) SetLastGeneration(ctx context.Context, family string, gen int) error {
	return s.store.SetLastGeneration(ctx, family, gen)
}

// IsTokenBlacklisted reports whether the raw token string is blacklisted.
// Fail closed: a store error is answered as blacklisted.
func (s *Service) IsTokenBlacklisted(ctx context.Context, token string) bool {
	blacklisted, err := s.store.IsTokenBlacklisted(ctx, token)
	if err != nil {
		s.logger.WithError(err).Error("token blacklist check failed - assuming blacklisted")
		return true
	}
	return blacklisted
}

// IsFamilyBlacklisted reports whether a family is blacklisted. Fail
// closed: a store error is answered as blacklisted.
func (s *Service) IsFamilyBlacklisted(ctx context.Context, family string) bool {
	blacklisted, err := s.store.IsFamilyBlacklisted(ctx, family)
	if err != nil {
		s.logger.WithError(err).Error("family blacklist check failed - assuming blacklisted")
		return true
	}
	return blacklisted
}

// IsBlacklisted reports whether a raw token string or its family is
// blacklisted. Unparseable tokens are answered as blacklisted.
func (s *Service) IsBlacklisted(ctx context.Context, token string) bool {
	claims, err := s.codec.Decode(token)
	if err != nil {
		s.logger.WithError(err).Warn("could not parse token for blacklist check - assuming blacklisted")
		return true
	}
	return s.IsFamilyBlacklisted(ctx, claims.Family) || s.IsTokenBlacklisted(ctx, token)
}

// LastGeneration returns the family's recorded generation, treating both
// an absent record and a store error as generation 0 (no rotation seen).
func (s *Service) LastGeneration(ctx context.Context, family string) int {
	gen, ok, err := s.store.LastGeneration(ctx, family)
	if err != nil {
		s.logger.WithError(err).Error("failed to retrieve last generation")
		return 0
	}
	if !ok {
		return 0
	}
	return gen
}

// IsIssuedBeforeLogoutAll reports whether the payload predates the user's
// logout-all epoch. Fail closed: a store error, or a payload with no
// issuance time, is answered as predating.
func (s *Service) IsIssuedBeforeLogoutAll(ctx context.Context, payload *SessionClaims, userID string) bool {
	epoch, ok, err := s.store.LogoutAllEpoch(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("logout-all epoch check failed - assuming logged out")
		return true
	}
	if !ok {
		return false
	}
	if payload.IssuedAt.IsZero() {
		return true
	}
	return payload.IssuedAt.Unix() < epoch.Unix()
}
