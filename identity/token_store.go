package identity

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-tracklog/pkg/types"
)

// MemoryTokenStore keeps one visitor token in process memory with TTL
// expiry. Useful for tests and CLI demos; web hosts should back the store
// with a cookie.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	clock   types.Clock
	token   string
	expires time.Time
}

// NewMemoryTokenStore constructs an in-memory token store.
func NewMemoryTokenStore(clock types.Clock) *MemoryTokenStore {
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &MemoryTokenStore{clock: clock}
}

var _ TokenStore = (*MemoryTokenStore)(nil)

// Load returns the stored token when present and unexpired.
func (s *MemoryTokenStore) Load(context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.clock.Now().After(s.expires) {
		return "", false
	}
	return s.token, true
}

// Save replaces the stored token and resets its expiry.
func (s *MemoryTokenStore) Save(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expires = s.clock.Now().Add(ttl)
	return nil
}
