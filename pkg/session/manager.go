package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// UpdateFunc receives a private copy of the session state and returns the state to commit.
type UpdateFunc func(ctx context.Context, state *domain.State) (*domain.State, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Lock entries are reference counted and removed once no caller holds or waits on them.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	newID   func() (string, error)
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUIDv7 session id generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		newID:   newSessionID,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newSessionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create starts a new session holding only the welcome message and returns its id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	id, err := m.newID()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, domain.NewState(id))
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	m.logger.Debug("session created", "session_id", id)
	return id, nil
}

// Get retrieves an existing session. It returns domain.ErrSessionNotFound for unknown ids.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// GetOrCreate loads a session, initializing and persisting it when it does not exist.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var (
			fresh bool
			err   error
		)
		state, fresh, err = m.load(ctx, sessionID)
		if err != nil || !fresh {
			return err
		}
		if err := m.store.Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.logger.Debug("session initialized", "session_id", sessionID)
		return nil
	})
	return state, err
}

// Update runs fn against a copy of the session state under the session lock and saves the
// result. Nothing is saved when fn fails or ctx is done by the time fn returns, and an
// unknown session only comes into existence through a successful update.
func (m *Manager) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*domain.State, error) {
	var committed *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, _, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}

		next, err := fn(ctx, current.Clone())
		if err != nil {
			return err
		}
		if next == nil {
			return fmt.Errorf("update of session %s produced no state", sessionID)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session %s: turn aborted before commit: %w", sessionID, err)
		}

		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		committed = next
		return nil
	})
	return committed, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The caller's ctx may already be cancelled; release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := unlock(releaseCtx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// load returns the stored state, or a fresh unsaved one when the session does not exist.
func (m *Manager) load(ctx context.Context, sessionID string) (*domain.State, bool, error) {
	state, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return state, false, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return domain.NewState(sessionID), true, nil
}
