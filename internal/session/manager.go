// Package session tracks live conversations. Each session owns one
// conversation context; access is serialized per session so concurrent
// requests against the same session cannot interleave history updates.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/storage"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("session not found")

// DefaultMaxIdle is how long a session may sit unused before Prune
// drops it from memory. Persisted transcripts survive pruning.
const DefaultMaxIdle = 30 * time.Minute

type entry struct {
	mu        sync.Mutex
	convCtx   *conversation.Context
	lastSeen  time.Time
	persisted int // history messages already written to storage
}

// Manager owns the in-memory session table. A nil repository gives a
// memory-only manager; with one, transcripts are written through after
// every turn.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*entry
	maxHistory int
	repo       *storage.SessionRepository
	logger     *observability.Logger
}

// NewManager creates a session manager. repo may be nil.
func NewManager(maxHistory int, repo *storage.SessionRepository, logger *observability.Logger) *Manager {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Manager{
		sessions:   make(map[string]*entry),
		maxHistory: maxHistory,
		repo:       repo,
		logger:     logger,
	}
}

// Resolve returns the session ID to use for a request, creating a new
// session when id is empty or unknown.
func (m *Manager) Resolve(ctx context.Context, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	_, ok := m.sessions[id]
	if !ok {
		m.sessions[id] = &entry{
			convCtx:  conversation.NewContext(id, m.maxHistory),
			lastSeen: time.Now(),
		}
	}
	m.mu.Unlock()

	if !ok && m.repo != nil {
		if _, err := m.repo.GetSession(ctx, id); errors.Is(err, storage.ErrNotFound) {
			if err := m.repo.CreateSession(ctx, id); err != nil {
				return "", err
			}
		} else if err != nil {
			return "", err
		}
	}
	return id, nil
}

// With runs fn against the session's conversation context while holding
// the session lock, then writes any new history messages through to
// storage.
func (m *Manager) With(ctx context.Context, id string, fn func(*conversation.Context) error) error {
	ent, ok := m.lookup(id)
	if !ok {
		return ErrNotFound
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	if err := fn(ent.convCtx); err != nil {
		return err
	}
	ent.lastSeen = time.Now()
	return m.flush(ctx, id, ent)
}

// flush persists history messages appended since the last call. Caller
// holds the entry lock.
func (m *Manager) flush(ctx context.Context, id string, ent *entry) error {
	if m.repo == nil {
		return nil
	}
	history := ent.convCtx.History()
	// a bounded history discards old messages; only ever persist the tail
	if ent.persisted > len(history) {
		ent.persisted = len(history)
	}
	for _, msg := range history[ent.persisted:] {
		if err := m.repo.AppendMessage(ctx, id, msg); err != nil {
			return err
		}
		ent.persisted++
	}
	return m.repo.TouchSession(ctx, id)
}

// Summary returns a snapshot of the session's state.
func (m *Manager) Summary(id string) (conversation.Summary, error) {
	ent, ok := m.lookup(id)
	if !ok {
		return conversation.Summary{}, ErrNotFound
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.convCtx.Summary(), nil
}

// History returns the session's transcript. Sessions evicted from
// memory fall back to the stored transcript when a repository is
// configured.
func (m *Manager) History(ctx context.Context, id string) ([]conversation.Message, error) {
	if ent, ok := m.lookup(id); ok {
		ent.mu.Lock()
		defer ent.mu.Unlock()
		history := ent.convCtx.History()
		out := make([]conversation.Message, len(history))
		copy(out, history)
		return out, nil
	}
	if m.repo == nil {
		return nil, ErrNotFound
	}
	if _, err := m.repo.GetSession(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m.repo.History(ctx, id)
}

// Delete removes the session from memory and storage.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, inMemory := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.repo != nil {
		err := m.repo.DeleteSession(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			if inMemory {
				return nil
			}
			return ErrNotFound
		}
		return err
	}
	if !inMemory {
		return ErrNotFound
	}
	return nil
}

// Prune evicts sessions idle for longer than maxIdle and reports how
// many were dropped.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, ent := range m.sessions {
		if ent.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		m.logger.Debug().Int("dropped", dropped).Msg("pruned idle sessions")
	}
	return dropped
}

// Len reports how many sessions are live in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ent, ok := m.sessions[id]
	return ent, ok
}
