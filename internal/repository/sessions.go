package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"friendbook/internal/models"
)

// SessionTTL is the sliding expiry window; it mirrors the cookie's
// max-age.
const SessionTTL = 7 * 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions so a process restart does not log
// everyone out. Each session embeds a JSON snapshot of the user record
// taken at login or last settings update.
type SessionStore interface {
	// Create starts a session for user and returns its id.
	Create(ctx context.Context, user *models.User) (string, error)
	// Get resolves a session id to its user snapshot. A hit slides the
	// expiry forward by SessionTTL; an expired or unknown id returns
	// ErrSessionNotFound.
	Get(ctx context.Context, id string) (*models.User, error)
	// Update replaces the embedded user snapshot in place.
	Update(ctx context.Context, id string, user *models.User) error
	Destroy(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

type sqliteSessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) SessionStore {
	return &sqliteSessionStore{db: db}
}

func (s *sqliteSessionStore) Create(ctx context.Context, user *models.User) (string, error) {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshal session user: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_json, expires_at) VALUES (?, ?, ?)`,
		id, string(snapshot), time.Now().Add(SessionTTL))
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

func (s *sqliteSessionStore) Get(ctx context.Context, id string) (*models.User, error) {
	var sess models.Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT id, user_json, expires_at FROM sessions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	if sess.ExpiresAt.Before(time.Now()) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, ErrSessionNotFound
	}
	// Sliding window: a served request pushes the expiry forward.
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE id = ?`, time.Now().Add(SessionTTL), id)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	var user models.User
	if err := json.Unmarshal([]byte(sess.UserJSON), &user); err != nil {
		return nil, fmt.Errorf("unmarshal session user: %w", err)
	}
	return &user, nil
}

func (s *sqliteSessionStore) Update(ctx context.Context, id string, user *models.User) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET user_json = ? WHERE id = ?`, string(snapshot), id)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *sqliteSessionStore) Destroy(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *sqliteSessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
