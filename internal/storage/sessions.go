package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/airdesk-ai/airdesk/internal/conversation"
)

// SessionRecord is one stored session.
type SessionRecord struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepository persists sessions and messages.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a session repository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a session row.
func (r *SessionRepository) CreateSession(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, updated_at) VALUES ($1, $2, $3)`,
		id, now, now,
	)
	return err
}

// GetSession returns a session row.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	rec := &SessionRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM sessions WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// TouchSession bumps the session's updated time.
func (r *SessionRepository) TouchSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	return err
}

// DeleteSession removes a session and its messages.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = $1`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage stores one transcript message.
func (r *SessionRepository) AppendMessage(ctx context.Context, sessionID string, msg conversation.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, role, content, intent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), sessionID, string(msg.Role), msg.Content, string(msg.Intent), msg.Timestamp.UTC(),
	)
	return err
}

// History returns a session's messages, oldest first.
func (r *SessionRepository) History(ctx context.Context, sessionID string) ([]conversation.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content, intent, created_at FROM messages
		 WHERE session_id = $1 ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []conversation.Message
	for rows.Next() {
		var msg conversation.Message
		var role, intentTag string
		if err := rows.Scan(&role, &msg.Content, &intentTag, &msg.Timestamp); err != nil {
			return nil, err
		}
		msg.Role = conversation.Role(role)
		msg.Intent = conversation.IntentType(intentTag)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
