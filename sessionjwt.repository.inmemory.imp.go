// File: sessionjwt.repository.inmemory.imp.go

package sessionjwt

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRevocationStore is an in-memory implementation of RevocationStore.
// Suitable for tests and single-instance deployments; revocation state is
// lost on restart.
type MemoryRevocationStore struct {
	mu              sync.RWMutex
	tokenBlacklist  map[string]struct{}
	familyBlacklist map[string]struct{}
	generations     map[string]int
	logoutEpochs    map[string]time.Time
}

// NewMemoryRevocationStore creates an empty in-memory revocation store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokenBlacklist:  make(map[string]struct{}),
		familyBlacklist: make(map[string]struct{}),
		generations:     make(map[string]int),
		logoutEpochs:    make(map[string]time.Time),
	}
}

// IsTokenBlacklisted checks the raw token string against the blacklist.
func (m *MemoryRevocationStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.tokenBlacklist[token]
	return exists, nil
}

// IsFamilyBlacklisted checks a family id against the family blacklist.
func (m *MemoryRevocationStore) IsFamilyBlacklisted(ctx context.Context, family string) (bool, error) {
	if family == "" {
		return false, fmt.Errorf("family cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.familyBlacklist[family]
	return exists, nil
}

// BlacklistToken invalidates a single raw token string.
func (m *MemoryRevocationStore) BlacklistToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenBlacklist[token] = struct{}{}
	return nil
}

// BlacklistFamily invalidates every token of a family.
func (m *MemoryRevocationStore) BlacklistFamily(ctx context.Context, family string) error {
	if family == "" {
		return fmt.Errorf("family cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.familyBlacklist[family] = struct{}{}
	return nil
}

// LastGeneration returns the last accepted generation for a family.
func (m *MemoryRevocationStore) LastGeneration(ctx context.Context, family string) (int, bool, error) {
	if family == "" {
		return 0, false, fmt.Errorf("family cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	gen, ok := m.generations[family]
	return gen, ok, nil
}

// SetLastGeneration records the last accepted generation for a family.
func (m *MemoryRevocationStore) SetLastGeneration(ctx context.Context, family string, gen int) error {
	if family == "" {
		return fmt.Errorf("family cannot be empty")
	}
	if gen < 0 {
		return fmt.Errorf("generation must be non-negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[family] = gen
	return nil
}

// RecordLogoutAll sets the user's logout-all epoch to the current time.
func (m *MemoryRevocationStore) RecordLogoutAll(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutEpochs[userID] = time.Now()
	return nil
}

// LogoutAllEpoch returns the user's recorded logout-all epoch, if any.
func (m *MemoryRevocationStore) LogoutAllEpoch(ctx context.Context, userID string) (time.Time, bool, error) {
	if userID == "" {
		return time.Time{}, false, fmt.Errorf("userID cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	epoch, ok := m.logoutEpochs[userID]
	return epoch, ok, nil
}
