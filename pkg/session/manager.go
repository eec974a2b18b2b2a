package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Local locks are reference counted and dropped once unused.
type Manager struct {
	store ports.ExplorationStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	opts    []exploration.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithExplorationOptions are applied to every exploration the Manager loads
// or creates, typically a logger and lifecycle hooks.
func WithExplorationOptions(opts ...exploration.Option) Option {
	return func(m *Manager) {
		m.opts = append(m.opts, opts...)
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.ExplorationStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release after unlocking.
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

// release decrements the reference count and deletes the entry at zero.
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

func (m *Manager) load(ctx context.Context, sessionID string) (*exploration.Exploration, error) {
	x, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	x.Apply(m.opts...)
	return x, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*exploration.Exploration, error) {
	var x *exploration.Exploration
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		x, err = m.load(ctx, sessionID)
		return err
	})
	return x, err
}

// LoadOrStart loads a session, creating and saving a new one when it does
// not exist. A new exploration is started at decision unless decision is
// empty, in which case it has no steps.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID, decision string) (*exploration.Exploration, error) {
	var x *exploration.Exploration
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		x, err = m.load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		x = exploration.New(m.opts...)
		if decision != "" {
			if err := x.Start(ctx, decision, exploration.StartOptions{}); err != nil {
				return err
			}
		}
		// Persist immediately to reserve the ID.
		if err := m.store.Save(ctx, sessionID, x); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return x, err
}

// Create makes a new exploration under sessionID, lets fn set it up and
// saves it. It fails with domain.ErrSessionExists when the ID is taken and
// saves nothing when fn fails.
func (m *Manager) Create(ctx context.Context, sessionID string, fn func(context.Context, *exploration.Exploration) error) (*exploration.Exploration, error) {
	var x *exploration.Exploration
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, sessionID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrSessionExists, sessionID)
		case !errors.Is(err, domain.ErrSessionNotFound):
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		x = exploration.New(m.opts...)
		if fn != nil {
			if err := fn(ctx, x); err != nil {
				return err
			}
		}
		return m.store.Save(ctx, sessionID, x)
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}

// Update loads a session, applies fn and saves the result, all under the
// session's lock. Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(context.Context, *exploration.Exploration) error) (*exploration.Exploration, error) {
	var x *exploration.Exploration
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		x, err = m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(ctx, x); err != nil {
			return err
		}
		return m.store.Save(ctx, sessionID, x)
	})
	return x, err
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, sessionID string, x *exploration.Exploration) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, x)
	})
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

// Store returns the underlying store.
func (m *Manager) Store() ports.ExplorationStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
