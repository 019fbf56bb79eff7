// sessionjwt_lifecycle_test.go

package sessionjwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTokenPair(t *testing.T) {
	svc := newTestService(t, NewMemoryRevocationStore())

	t.Run("Yields Two Signed Strings", func(t *testing.T) {
		pair, err := svc.CreateTokenPair("user-1")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.Token)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.Token, pair.RefreshToken)
	})

	t.Run("Tokens Share The Triple", func(t *testing.T) {
		pair, err := svc.CreateTokenPair("user-1")
		require.NoError(t, err)

		access, err := svc.Codec().Decode(pair.Token)
		require.NoError(t, err)
		refresh, err := svc.Codec().Decode(pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, "user-1", access.UserID)
		assert.Equal(t, access.UserID, refresh.UserID)
		assert.Equal(t, access.Family, refresh.Family)
		assert.NotEmpty(t, access.Family)
		assert.Equal(t, 0, access.Generation)
		assert.Equal(t, 0, refresh.Generation)
	})

	t.Run("Fresh Family Per Login", func(t *testing.T) {
		first, err := svc.CreateTokenPair("user-1")
		require.NoError(t, err)
		second, err := svc.CreateTokenPair("user-1")
		require.NoError(t, err)

		firstClaims, err := svc.Codec().Decode(first.Token)
		require.NoError(t, err)
		secondClaims, err := svc.Codec().Decode(second.Token)
		require.NoError(t, err)
		assert.NotEqual(t, firstClaims.Family, secondClaims.Family)
	})

	t.Run("TTLs Per Flavor", func(t *testing.T) {
		pair, err := svc.CreateTokenPair("user-1")
		require.NoError(t, err)

		now := time.Now()
		assert.InDelta(t, now.Add(svc.Config().AccessTTL).Unix(), pair.ExpiresAt.Unix(), 2)
		assert.InDelta(t, now.Add(svc.Config().RefreshTTL).Unix(), pair.RefreshExpiresAt.Unix(), 2)
	})

	t.Run("Explicit Family And Generation", func(t *testing.T) {
		pair, err := svc.CreateTokenPairForFamily("user-1", "fam-x", 4)
		require.NoError(t, err)

		claims, err := svc.Codec().Decode(pair.Token)
		require.NoError(t, err)
		assert.Equal(t, "fam-x", claims.Family)
		assert.Equal(t, 4, claims.Generation)
	})

	t.Run("Rejects Bad Input", func(t *testing.T) {
		_, err := svc.CreateTokenPairForFamily("user-1", "", 0)
		require.Error(t, err)

		_, err = svc.CreateTokenPairForFamily("user-1", "fam", -1)
		require.Error(t, err)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestService(t, NewMemoryRevocationStore())

	mintRefreshClaims := func(t *testing.T) *SessionClaims {
		t.Helper()
		pair, err := svc.CreateTokenPair("user-1")
		require.NoError(t, err)
		claims, err := svc.Codec().Decode(pair.RefreshToken)
		require.NoError(t, err)
		return claims
	}

	t.Run("Increments Generation In Both Tokens", func(t *testing.T) {
		claims := mintRefreshClaims(t)

		pair, err := svc.RefreshTokenPair(*claims)
		require.NoError(t, err)

		access, err := svc.Codec().Decode(pair.Token)
		require.NoError(t, err)
		refresh, err := svc.Codec().Decode(pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, claims.Generation+1, access.Generation)
		assert.Equal(t, claims.Generation+1, refresh.Generation)
		assert.Equal(t, claims.Family, access.Family)
		assert.Equal(t, claims.Family, refresh.Family)
	})

	t.Run("Refresh Token Keeps Original Issuance And Expiry", func(t *testing.T) {
		claims := mintRefreshClaims(t)

		pair, err := svc.RefreshTokenPair(*claims)
		require.NoError(t, err)

		refresh, err := svc.Codec().Decode(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, claims.IssuedAt.Unix(), refresh.IssuedAt.Unix())
		assert.Equal(t, claims.ExpiresAt.Unix(), refresh.ExpiresAt.Unix())
		assert.Equal(t, claims.ExpiresAt.Unix(), pair.RefreshExpiresAt.Unix())
	})

	t.Run("Access Token Gets A New Lifetime", func(t *testing.T) {
		claims := mintRefreshClaims(t)

		pair, err := svc.RefreshTokenPair(*claims)
		require.NoError(t, err)

		access, err := svc.Codec().Decode(pair.Token)
		require.NoError(t, err)

		now := time.Now()
		assert.InDelta(t, now.Unix(), access.IssuedAt.Unix(), 2)
		assert.InDelta(t, now.Add(svc.Config().AccessTTL).Unix(), access.ExpiresAt.Unix(), 2)
	})

	t.Run("Rotated Tokens Verify", func(t *testing.T) {
		claims := mintRefreshClaims(t)

		pair, err := svc.RefreshTokenPair(*claims)
		require.NoError(t, err)

		_, err = svc.Codec().Verify(pair.Token)
		require.NoError(t, err)
		_, err = svc.Codec().Verify(pair.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("Rejects Payload Without Expiry", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(SessionClaims{UserID: "user-1", Family: "fam"})
		require.Error(t, err)
	})
}

func TestLogoutOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("LogoutFamily Blacklists The Family", func(t *testing.T) {
		store := NewMemoryRevocationStore()
		svc := newTestService(t, store)

		require.NoError(t, svc.LogoutFamily(ctx, "fam-1"))

		blacklisted, err := store.IsFamilyBlacklisted(ctx, "fam-1")
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("LogoutAllDevices Records The Epoch", func(t *testing.T) {
		store := NewMemoryRevocationStore()
		svc := newTestService(t, store)

		require.NoError(t, svc.LogoutAllDevices(ctx, "user-1"))

		epoch, ok, err := store.LogoutAllEpoch(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, time.Now().Unix(), epoch.Unix(), 2)
	})
}

func TestFailClosedWrappers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, failingStore{})

	pair, err := svc.CreateTokenPair("user-1")
	require.NoError(t, err)
	claims, err := svc.Codec().Decode(pair.Token)
	require.NoError(t, err)

	t.Run("Token Blacklist Check Fails Closed", func(t *testing.T) {
		assert.True(t, svc.IsTokenBlacklisted(ctx, pair.Token))
	})

	t.Run("Family Blacklist Check Fails Closed", func(t *testing.T) {
		assert.True(t, svc.IsFamilyBlacklisted(ctx, claims.Family))
	})

	t.Run("Combined Blacklist Check Fails Closed", func(t *testing.T) {
		assert.True(t, svc.IsBlacklisted(ctx, pair.Token))
		assert.True(t, svc.IsBlacklisted(ctx, "garbage"))
	})

	t.Run("Logout-All Check Fails Closed", func(t *testing.T) {
		assert.True(t, svc.IsIssuedBeforeLogoutAll(ctx, claims, "user-1"))
	})

	t.Run("Generation Falls Back To Zero", func(t *testing.T) {
		assert.Equal(t, 0, svc.LastGeneration(ctx, claims.Family))
	})
}

func TestIsBlacklisted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocationStore()
	svc := newTestService(t, store)

	legit, err := svc.CreateTokenPair("user-1")
	require.NoError(t, err)

	blacklistedPair, err := svc.CreateTokenPair("user-1")
	require.NoError(t, err)
	require.NoError(t, store.BlacklistToken(ctx, blacklistedPair.Token))

	familyPair, err := svc.CreateTokenPairForFamily("user-1", "burned-family", 0)
	require.NoError(t, err)
	require.NoError(t, store.BlacklistFamily(ctx, "burned-family"))

	assert.False(t, svc.IsBlacklisted(ctx, legit.Token))
	assert.False(t, svc.IsBlacklisted(ctx, legit.RefreshToken))
	assert.True(t, svc.IsBlacklisted(ctx, blacklistedPair.Token))
	assert.True(t, svc.IsBlacklisted(ctx, familyPair.Token))
	assert.True(t, svc.IsBlacklisted(ctx, familyPair.RefreshToken))
	assert.True(t, svc.IsBlacklisted(ctx, "not-even-a-token"))
}

func TestNewService(t *testing.T) {
	t.Run("Nil Store", func(t *testing.T) {
		_, err := NewService(testConfig(), nil, testLogger())
		require.Error(t, err)
	})

	t.Run("Invalid Config", func(t *testing.T) {
		config := testConfig()
		config.Secret = "short"
		_, err := NewService(config, NewMemoryRevocationStore(), testLogger())
		require.Error(t, err)
	})

	t.Run("Nil Logger Defaults", func(t *testing.T) {
		svc, err := NewService(testConfig(), NewMemoryRevocationStore(), nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}
