package revocation

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Minute

// TokenRevocationList tracks revoked token JTIs until the token would have
// expired anyway.
type TokenRevocationList interface {
	// RevokeToken adds a token JTI to the revocation list with TTL
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token JTI is in the revocation list
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// InMemoryTRL is an in-memory implementation of TokenRevocationList for
// single-instance deployments and tests. Use RedisTRL or PostgresTRL when
// several instances share revocation state.
type InMemoryTRL struct {
	mu              sync.RWMutex
	revoked         map[string]time.Time // jti -> expiry timestamp
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

// InMemoryOption configures an InMemoryTRL.
type InMemoryOption func(*InMemoryTRL)

// WithCleanupInterval sets how often expired entries are swept.
// Non-positive values keep the default.
func WithCleanupInterval(d time.Duration) InMemoryOption {
	return func(t *InMemoryTRL) {
		if d > 0 {
			t.cleanupInterval = d
		}
	}
}

// NewInMemoryTRL creates a new in-memory token revocation list and starts
// its sweeper. Call Close to stop the sweeper.
func NewInMemoryTRL(opts ...InMemoryOption) *InMemoryTRL {
	trl := &InMemoryTRL{
		revoked:         make(map[string]time.Time),
		cleanupInterval: defaultCleanupInterval,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(trl)
	}
	go trl.cleanup()
	return trl
}

// RevokeToken adds a token to the revocation list with TTL.
func (t *InMemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks if a token is in the revocation list.
func (t *InMemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	expiry, exists := t.revoked[jti]
	if !exists {
		return false, nil
	}

	// Past the expiry the token fails validation on its own.
	if time.Now().After(expiry) {
		return false, nil
	}

	return true, nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (t *InMemoryTRL) Close() error {
	t.stopOnce.Do(func() { close(t.stop) })
	return nil
}

// cleanup periodically removes expired entries from the revocation list.
func (t *InMemoryTRL) cleanup() {
	ticker := time.NewTicker(t.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.sweep(time.Now())
		}
	}
}

func (t *InMemoryTRL) sweep(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for jti, expiry := range t.revoked {
		if now.After(expiry) {
			delete(t.revoked, jti)
		}
	}
}

// Checker exposes a TokenRevocationList to the auth middleware.
type Checker struct {
	list TokenRevocationList
}

// NewChecker wraps list for use by the auth middleware.
func NewChecker(list TokenRevocationList) *Checker {
	return &Checker{list: list}
}

// IsTokenRevoked reports whether the access token with jti was revoked.
func (c *Checker) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return c.list.IsRevoked(ctx, jti)
}
