package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/weave/internal/logging"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/aretw0/weave/pkg/ports"
)

// ErrAgentMismatch is returned when a stored snapshot belongs to another agent.
var ErrAgentMismatch = errors.New("snapshot belongs to a different agent")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	agent *poly.Agent
	store ports.PositionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder.
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

// NewManager creates a Manager running agent over the given store.
func NewManager(agent *poly.Agent, store ports.PositionStore, opts ...Option) *Manager {
	m := &Manager{
		agent:   agent,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Agent returns the managed agent.
func (m *Manager) Agent() *poly.Agent { return m.agent }

// acquire gets or creates a lock entry and increments its reference count.
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

// Load returns the stored position of a session.
// Returns ports.ErrSessionNotFound if the session was never started.
func (m *Manager) Load(ctx context.Context, sessionID string) (poly.Position, error) {
	var pos poly.Position
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		pos, _, err = m.load(ctx, sessionID)
		return err
	})
	return pos, err
}

// LoadOrStart loads a session, starting it at the agent's initial position
// when it does not exist yet.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (poly.Position, error) {
	var pos poly.Position
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		pos, _, err = m.loadOrStart(ctx, sessionID)
		return err
	})
	return pos, err
}

// Step feeds input to the session's agent and persists the next position.
// On error the stored position is left as it was.
func (m *Manager) Step(ctx context.Context, sessionID string, input any) (any, error) {
	var out any
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		pos, steps, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		next, o, err := poly.Invoke(ctx, m.agent, pos, input)
		if err != nil {
			m.logger.Debug("session step rejected", "session_id", sessionID, "err", err)
			return err
		}
		if err := m.save(ctx, sessionID, next, steps+1); err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

// Reset moves a session back to the agent's initial position.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.save(ctx, sessionID, m.agent.Initial(), 0)
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

// Store returns the underlying position store.
func (m *Manager) Store() ports.PositionStore {
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

func (m *Manager) load(ctx context.Context, sessionID string) (poly.Position, int, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return poly.Position{}, 0, err
	}
	if snap.Agent != m.agent.Name() {
		return poly.Position{}, 0, fmt.Errorf("session %q: %w: stored %q, running %q",
			sessionID, ErrAgentMismatch, snap.Agent, m.agent.Name())
	}
	pos, err := poly.UnmarshalPosition(m.agent, snap.Position)
	if err != nil {
		return poly.Position{}, 0, fmt.Errorf("session %q: %w", sessionID, err)
	}
	return pos, snap.Steps, nil
}

func (m *Manager) loadOrStart(ctx context.Context, sessionID string) (poly.Position, int, error) {
	pos, steps, err := m.load(ctx, sessionID)
	if err == nil {
		return pos, steps, nil
	}
	if !errors.Is(err, ports.ErrSessionNotFound) {
		return poly.Position{}, 0, fmt.Errorf("failed to check session existence: %w", err)
	}

	pos = m.agent.Initial()
	// Persist immediately to reserve the ID.
	if err := m.save(ctx, sessionID, pos, 0); err != nil {
		return poly.Position{}, 0, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("session started", "session_id", sessionID, "agent", m.agent.Name())
	return pos, 0, nil
}

func (m *Manager) save(ctx context.Context, sessionID string, pos poly.Position, steps int) error {
	data, err := poly.MarshalPosition(pos)
	if err != nil {
		return fmt.Errorf("session %q: encode position: %w", sessionID, err)
	}
	return m.store.Save(ctx, sessionID, &ports.Snapshot{
		Agent:     m.agent.Name(),
		Position:  data,
		Steps:     steps,
		UpdatedAt: m.now().UTC(),
	})
}
