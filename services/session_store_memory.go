package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fashionmart/storefront-api/models"
)

type memoryEntry struct {
	cart      []byte
	expiresAt time.Time
}

// MemorySessionStore keeps carts in process memory. It is used when no
// REDIS_URL is configured and in tests.
type MemorySessionStore struct {
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	saves   int
	mu      sync.RWMutex
}

// NewMemorySessionStore creates an in-memory session store
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetAsMockForTesting sets this store as the global session store
func (m *MemorySessionStore) SetAsMockForTesting() {
	SetSessionStore(m)
}

// GetCart returns a copy of the stored cart
func (m *MemorySessionStore) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok || (m.ttl > 0 && m.now().After(entry.expiresAt)) {
		return models.NewCart(), nil
	}

	cart := models.NewCart()
	if err := json.Unmarshal(entry.cart, cart); err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = make(map[uint]models.CartLine)
	}
	return cart, nil
}

// SaveCart stores a dirty cart
func (m *MemorySessionStore) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart == nil || !cart.Dirty {
		return nil
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[sessionID] = memoryEntry{cart: raw, expiresAt: m.now().Add(m.ttl)}
	m.saves++
	m.mu.Unlock()

	cart.Dirty = false
	return nil
}

// ClearCart drops the stored cart
func (m *MemorySessionStore) ClearCart(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

// SaveCount returns how many writes reached the store (for testing assertions)
func (m *MemorySessionStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
