// File: sessionjwt.repository.redis.imp.go

package sessionjwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. The blacklists and the generation counters live in
// hashes; the logout-all epoch is one string key per user.
const (
	tokenBlacklistKey  = "tokenBlacklist"
	familyBlacklistKey = "tokenFamilyBlacklist"
	familyGenerations  = "familyGenerations"
	logoutAllKeyPrefix = "logoutAllTokensIssuedBeforeTimestamp:"
)

// RedisRevocationStore is the production RevocationStore backed by a
// shared Redis instance. Expiry and compaction of the revocation records
// are left to Redis' own eviction configuration.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a Redis-backed revocation store and
// verifies the connection with a ping.
func NewRedisRevocationStore(client *redis.Client) (RevocationStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisRevocationStore{client: client}, nil
}

// IsTokenBlacklisted checks the raw token string against the token
// blacklist hash.
func (r *RedisRevocationStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token cannot be empty")
	}

	exists, err := r.client.HExists(ctx, tokenBlacklistKey, token).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return exists, nil
}

// IsFamilyBlacklisted checks a family id against the family blacklist
// hash.
func (r *RedisRevocationStore) IsFamilyBlacklisted(ctx context.Context, family string) (bool, error) {
	if family == "" {
		return false, fmt.Errorf("family cannot be empty")
	}

	exists, err := r.client.HExists(ctx, familyBlacklistKey, family).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return exists, nil
}

// BlacklistToken invalidates a single raw token string.
func (r *RedisRevocationStore) BlacklistToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	return r.client.HSet(ctx, tokenBlacklistKey, token, 1).Err()
}

// BlacklistFamily invalidates every token of a family.
func (r *RedisRevocationStore) BlacklistFamily(ctx context.Context, family string) error {
	if family == "" {
		return fmt.Errorf("family cannot be empty")
	}
	return r.client.HSet(ctx, familyBlacklistKey, family, 1).Err()
}

// LastGeneration returns the last accepted generation for a family.
func (r *RedisRevocationStore) LastGeneration(ctx context.Context, family string) (int, bool, error) {
	if family == "" {
		return 0, false, fmt.Errorf("family cannot be empty")
	}

	val, err := r.client.HGet(ctx, familyGenerations, family).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis error: %w", err)
	}

	gen, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("malformed generation record %q: %w", val, err)
	}
	return gen, true, nil
}

// SetLastGeneration records the last accepted generation for a family.
func (r *RedisRevocationStore) SetLastGeneration(ctx context.Context, family string, gen int) error {
	if family == "" {
		return fmt.Errorf("family cannot be empty")
	}
	if gen < 0 {
		return fmt.Errorf("generation must be non-negative")
	}
	return r.client.HSet(ctx, familyGenerations, family, gen).Err()
}

// RecordLogoutAll sets the user's logout-all epoch to the current time.
func (r *RedisRevocationStore) RecordLogoutAll(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	return r.client.Set(ctx, logoutAllKeyPrefix+userID, time.Now().Unix(), 0).Err()
}

// LogoutAllEpoch returns the user's recorded logout-all epoch, if any.
func (r *RedisRevocationStore) LogoutAllEpoch(ctx context.Context, userID string) (time.Time, bool, error) {
	if userID == "" {
		return time.Time{}, false, fmt.Errorf("userID cannot be empty")
	}

	val, err := r.client.Get(ctx, logoutAllKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis error: %w", err)
	}

	secs, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed logout-all record %q: %w", val, err)
	}
	return time.Unix(secs, 0), true, nil
}
