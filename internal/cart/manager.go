package cart

import (
	"context"
	"sync"
	"time"

	"storefront-bff/internal/domain"
)

// Gateway is the slice of the commerce client the manager needs.
type Gateway interface {
	CreateCart(ctx context.Context) (string, error)
	CartItems(ctx context.Context, key string) (map[string]domain.CartItem, error)
}

// Manager holds the latest Cart value per storefront session. It is
// the only birth path for Carts: both first load and every terminal
// checkout outcome go through Initialize, so a consumed cart session
// is never reused.
type Manager struct {
	gateway Gateway
	now     func() time.Time

	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewManager(gw Gateway) *Manager {
	return &Manager{
		gateway: gw,
		now:     time.Now,
		carts:   make(map[string]domain.Cart),
	}
}

// Initialize obtains a fresh cart session from the backend and returns
// a new empty Cart bound to it.
func (m *Manager) Initialize(ctx context.Context) (domain.Cart, error) {
	key, err := m.gateway.CreateCart(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{
		Items:     []domain.CartItem{},
		Key:       key,
		Total:     0,
		Timestamp: m.now(),
		Version:   1,
	}, nil
}

// Current returns the cart held for the session, if any.
func (m *Manager) Current(sessionID string) (domain.Cart, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[sessionID]
	return c, ok
}

// Adopt replaces the session's held cart with the given value.
func (m *Manager) Adopt(sessionID string, c domain.Cart) {
	m.mu.Lock()
	m.carts[sessionID] = c
	m.mu.Unlock()
}

// Reset replaces the session's cart wholesale with a freshly
// initialized one. On failure the stale entry is dropped so the next
// access forces re-initialization rather than reusing a consumed key.
func (m *Manager) Reset(ctx context.Context, sessionID string) (domain.Cart, error) {
	fresh, err := m.Initialize(ctx)
	if err != nil {
		m.mu.Lock()
		delete(m.carts, sessionID)
		m.mu.Unlock()
		return domain.Cart{}, err
	}
	m.Adopt(sessionID, fresh)
	return fresh, nil
}

// Refresh reconciles the session's cart against the backend's current
// line items and adopts the result. Sessions without a cart get a
// fresh one first.
func (m *Manager) Refresh(ctx context.Context, sessionID string) (domain.Cart, error) {
	current, ok := m.Current(sessionID)
	if !ok {
		fresh, err := m.Initialize(ctx)
		if err != nil {
			return domain.Cart{}, err
		}
		m.Adopt(sessionID, fresh)
		return fresh, nil
	}

	items, err := m.gateway.CartItems(ctx, current.Key)
	if err != nil {
		return domain.Cart{}, err
	}
	next := Reconcile(current, items)
	m.Adopt(sessionID, next)
	return next, nil
}
