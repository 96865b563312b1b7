package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns a user by handle
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT id, username, password, name, email, phone FROM users WHERE username = ?")
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT id, username, password, name, email, phone FROM users WHERE id = ?")
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// Exists reports whether the handle is taken
func (r *UserRepository) Exists(ctx context.Context, ext sqlx.ExtContext, username string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, ext, &count, ext.Rebind("SELECT COUNT(*) FROM users WHERE username = ?"), username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Create inserts a user and sets its ID
func (r *UserRepository) Create(ctx context.Context, ext sqlx.ExtContext, user *models.User) error {
	id, err := insertReturningID(ctx, ext,
		"INSERT INTO users (username, password, name, email, phone) VALUES (?, ?, ?, ?, ?)",
		user.Username, user.PasswordHash, user.Name, user.Email, user.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}
