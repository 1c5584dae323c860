package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"friendbook/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLoginTaken   = errors.New("login already taken")
)

// UserRepository defines the data-access contract for user records.
type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, login, passwordHash, displayName string) (*models.User, error)
	Update(ctx context.Context, id int64, displayName, bio, passwordHash string) (*models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, login, password_hash, display_name, bio FROM users WHERE login = ?`, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by login: %w", err)
	}
	return &u, nil
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, login, password_hash, display_name, bio FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &u, nil
}

func (r *sqliteUserRepository) Create(ctx context.Context, login, passwordHash, displayName string) (*models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (login, password_hash, display_name) VALUES (?, ?, ?)`,
		login, passwordHash, displayName)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.login") {
			return nil, ErrLoginTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteUserRepository) Update(ctx context.Context, id int64, displayName, bio, passwordHash string) (*models.User, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, bio = ?, password_hash = ? WHERE id = ?`,
		displayName, bio, passwordHash, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.GetByID(ctx, id)
}
