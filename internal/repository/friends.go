package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"friendbook/internal/models"
)

// FriendRepository manages the directed friend edges. An edge (A, B)
// means A friended B and says nothing about the reverse direction.
type FriendRepository interface {
	ListFriends(ctx context.Context, ownerID int64) ([]models.PublicUser, error)
	Add(ctx context.Context, ownerID, targetID int64) error
	Remove(ctx context.Context, ownerID, targetID int64) error
}

type sqliteFriendRepository struct {
	db *sqlx.DB
}

func NewFriendRepository(db *sqlx.DB) FriendRepository {
	return &sqliteFriendRepository{db: db}
}

// ListFriends returns the owner's friends ordered by login ascending.
func (r *sqliteFriendRepository) ListFriends(ctx context.Context, ownerID int64) ([]models.PublicUser, error) {
	friends := []models.PublicUser{}
	err := r.db.SelectContext(ctx, &friends,
		`SELECT u.id, u.login, u.display_name, u.bio
		 FROM friends f JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = ? ORDER BY u.login`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	return friends, nil
}

// Add is idempotent: inserting an edge that already exists is a no-op.
func (r *sqliteFriendRepository) Add(ctx context.Context, ownerID, targetID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO friends (user_id, friend_id) VALUES (?, ?)`, ownerID, targetID)
	if err != nil {
		return fmt.Errorf("insert friend edge: %w", err)
	}
	return nil
}

// Remove deletes the edge if present and succeeds silently if not.
func (r *sqliteFriendRepository) Remove(ctx context.Context, ownerID, targetID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM friends WHERE user_id = ? AND friend_id = ?`, ownerID, targetID)
	if err != nil {
		return fmt.Errorf("delete friend edge: %w", err)
	}
	return nil
}
