// Package memory provides a bounded in-process StateStore.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aretw0/concierge/pkg/domain"
)

const (
	// DefaultCapacity is the number of sessions kept before the least recently used is evicted.
	DefaultCapacity = 10000
	// DefaultTTL is how long a session survives without a save.
	DefaultTTL = 30 * time.Minute
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use. States are copied on the way in and out.
type Store struct {
	cache *expirable.LRU[string, *domain.State]
}

type options struct {
	capacity int
	ttl      time.Duration
	onEvict  func(sessionID string)
}

// Option configures the Store.
type Option func(*options)

// WithCapacity bounds the number of live sessions.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithTTL sets the idle lifetime of a session. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.ttl = ttl
		}
	}
}

// WithEvictionHook registers fn for every session leaving the store (capacity, expiry or
// Delete). fn runs under the store lock and must not call back into the Store.
func WithEvictionHook(fn func(sessionID string)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	o := options{capacity: DefaultCapacity, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}

	var onEvict expirable.EvictCallback[string, *domain.State]
	if o.onEvict != nil {
		hook := o.onEvict
		onEvict = func(key string, _ *domain.State) {
			hook(key)
		}
	}

	return &Store{
		cache: expirable.NewLRU[string, *domain.State](o.capacity, onEvict, o.ttl),
	}
}

// Save persists a copy of the state and restarts its idle timer.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	s.cache.Add(sessionID, state.Clone())
	return nil
}

// Load retrieves a copy of the state.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	state, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.cache.Remove(sessionID)
	return nil
}

// List returns the ids of the live sessions, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.cache.Keys(), nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
