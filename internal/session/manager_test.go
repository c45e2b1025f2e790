package session

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SessionRepository {
	t.Helper()
	db, err := storage.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.Migrate(context.Background(), db))
	return storage.NewSessionRepository(db)
}

func TestResolveGeneratesID(t *testing.T) {
	m := NewManager(10, nil, nil)

	id, err := m.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, m.Len())
}

func TestResolveReusesSession(t *testing.T) {
	m := NewManager(10, nil, nil)
	ctx := context.Background()

	id, err := m.Resolve(ctx, "")
	require.NoError(t, err)

	require.NoError(t, m.With(ctx, id, func(c *conversation.Context) error {
		c.AddMessage(conversation.RoleUser, "hello", conversation.IntentGeneralChat, nil)
		return nil
	}))

	again, err := m.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	summary, err := m.Summary(id)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MessageCount)
}

func TestWithUnknownSession(t *testing.T) {
	m := NewManager(10, nil, nil)

	err := m.With(context.Background(), "nope", func(*conversation.Context) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMemoryOnly(t *testing.T) {
	m := NewManager(10, nil, nil)
	ctx := context.Background()

	id, err := m.Resolve(ctx, "")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))
	assert.Zero(t, m.Len())
	assert.ErrorIs(t, m.Delete(ctx, id), ErrNotFound)
}

func TestPersistenceWriteThrough(t *testing.T) {
	repo := newTestRepo(t)
	m := NewManager(10, repo, nil)
	ctx := context.Background()

	id, err := m.Resolve(ctx, "")
	require.NoError(t, err)

	require.NoError(t, m.With(ctx, id, func(c *conversation.Context) error {
		c.AddMessage(conversation.RoleUser, "flights to goa", conversation.IntentFlightSearch, nil)
		c.AddMessage(conversation.RoleAssistant, "Found 4 flights.", conversation.IntentFlightSearch, nil)
		return nil
	}))

	stored, err := repo.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "flights to goa", stored[0].Content)

	// a second turn appends without duplicating the first
	require.NoError(t, m.With(ctx, id, func(c *conversation.Context) error {
		c.AddMessage(conversation.RoleUser, "the first one", conversation.IntentFlightSearch, nil)
		return nil
	}))

	stored, err = repo.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestHistoryFallsBackToStorage(t *testing.T) {
	repo := newTestRepo(t)
	m := NewManager(10, repo, nil)
	ctx := context.Background()

	id, err := m.Resolve(ctx, "")
	require.NoError(t, err)
	require.NoError(t, m.With(ctx, id, func(c *conversation.Context) error {
		c.AddMessage(conversation.RoleUser, "hello", conversation.IntentGeneralChat, nil)
		return nil
	}))

	// evict from memory; the transcript must still be readable
	m.Prune(0)
	require.Zero(t, m.Len())

	history, err := m.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Content)
}

func TestDeleteRemovesStoredSession(t *testing.T) {
	repo := newTestRepo(t)
	m := NewManager(10, repo, nil)
	ctx := context.Background()

	id, err := m.Resolve(ctx, "")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))

	_, err = m.History(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPruneKeepsActiveSessions(t *testing.T) {
	m := NewManager(10, nil, nil)
	ctx := context.Background()

	_, err := m.Resolve(ctx, "")
	require.NoError(t, err)

	assert.Zero(t, m.Prune(time.Hour))
	assert.Equal(t, 1, m.Len())
}
