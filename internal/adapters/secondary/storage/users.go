package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// UserRepository stores accounts in the users table
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a user repository on db
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A taken email yields ErrUserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return entities.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetByID loads a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

// GetByEmail loads a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entities.User, error) {
	var user entities.User
	err := r.db.sql.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// Ensure UserRepository implements ports.UserRepository
var _ ports.UserRepository = (*UserRepository)(nil)
