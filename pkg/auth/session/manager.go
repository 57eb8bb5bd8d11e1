package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// sessionStore is the subset of the redis client the manager depends on.
type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// sessionKeyer builds namespaced keys for access sessions.
type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Manager tracks live access sessions so that logout and bans can revoke
// tokens before they expire.
type Manager struct {
	store sessionStore
	keys  sessionKeyer
	ttl   time.Duration
}

// Checker is the read-only surface used by the auth middleware.
type Checker interface {
	HasSession(ctx context.Context, accessID string) (int64, bool, error)
}

// NewManager wires the session manager. TTL should match the access token TTL.
func NewManager(store sessionStore, keys sessionKeyer, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if keys == nil {
		return nil, errors.New("session keyer is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{store: store, keys: keys, ttl: ttl}, nil
}

// NewAccessID returns a fresh token identifier.
func NewAccessID() string {
	return uuid.NewString()
}

// Create registers a session for the given access token id.
func (m *Manager) Create(ctx context.Context, accessID string, userID int64) error {
	if accessID == "" {
		return errors.New("access id is required")
	}
	if userID <= 0 {
		return errors.New("user id must be positive")
	}
	key := m.keys.AccessSessionKey(accessID)
	if err := m.store.Set(ctx, key, strconv.FormatInt(userID, 10), m.ttl); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Revoke removes the session, invalidating the token immediately.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return errors.New("access id is required")
	}
	if err := m.store.Del(ctx, m.keys.AccessSessionKey(accessID)); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// HasSession reports whether the access token id still maps to a live session
// and returns the owning user id.
func (m *Manager) HasSession(ctx context.Context, accessID string) (int64, bool, error) {
	if accessID == "" {
		return 0, false, nil
	}
	raw, err := m.store.Get(ctx, m.keys.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("looking up session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, true, nil
}
