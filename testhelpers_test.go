// testhelpers_test.go

package sessionjwt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "test-secret-key-for-sessionjwt-0123456789abcdef0123456789abcdef!"
	testOtherSecret = "other-secret-key-for-sessionjwt-0123456789abcdef0123456789abcde!"
)

func testConfig() Config {
	config := DefaultConfig(testSecret)
	config.CookieSecure = false
	return config
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, store RevocationStore) *Service {
	t.Helper()
	svc, err := NewService(testConfig(), store, testLogger())
	require.NoError(t, err)
	return svc
}

func requestWithCookies(cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		t.Skip("Redis not available, skipping test")
	}
	return client
}

// spyStore records family blacklist writes so gate side effects can be
// asserted.
type spyStore struct {
	*MemoryRevocationStore
	blacklistedFamilies []string
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryRevocationStore: NewMemoryRevocationStore()}
}

func (s *spyStore) BlacklistFamily(ctx context.Context, family string) error {
	s.blacklistedFamilies = append(s.blacklistedFamilies, family)
	return s.MemoryRevocationStore.BlacklistFamily(ctx, family)
}

// failingStore errors on every operation, standing in for an unreachable
// key-value store.
type failingStore struct{}

func (failingStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return false, context.DeadlineExceeded
}

func (failingStore) IsFamilyBlacklisted(ctx context.Context, family string) (bool, error) {
	return false, context.DeadlineExceeded
}

func (failingStore) BlacklistToken(ctx context.Context, token string) error {
	return context.DeadlineExceeded
}

func (failingStore) BlacklistFamily(ctx context.Context, family string) error {
	return context.DeadlineExceeded
}

func (failingStore) LastGeneration(ctx context.Context, family string) (int, bool, error) {
	return 0, false, context.DeadlineExceeded
}

func (failingStore) SetLastGeneration(ctx context.Context, family string, gen int) error {
	return context.DeadlineExceeded
}

func (failingStore) RecordLogoutAll(ctx context.Context, userID string) error {
	return context.DeadlineExceeded
}

func (failingStore) LogoutAllEpoch(ctx context.Context, userID string) (time.Time, bool, error) {
	return time.Time{}, false, context.DeadlineExceeded
}
