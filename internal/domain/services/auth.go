package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// AuthService implements sign-in, account creation and the admin guard
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionManager
	hasher     ports.PasswordHasher
	clock      ports.TimeProvider
	adminEmail string
}

// NewAuthService creates a new auth service. Only the user whose email
// matches adminEmail passes RequireAdminUser.
func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionManager,
	hasher ports.PasswordHasher,
	clock ports.TimeProvider,
	adminEmail string,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		clock:      clock,
		adminEmail: entities.NormalizeEmail(adminEmail),
	}
}

// Login verifies an email/password pair and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return "", nil, entities.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("loading user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", nil, entities.ErrInvalidCredentials
	}

	token, _, err := s.sessions.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issuing session: %w", err)
	}

	return token, user, nil
}

// RequireAdminUser resolves a session token to the admin user.
// It fails with ErrUnauthenticated when there is no valid session and with
// ErrForbidden when the session belongs to someone else.
func (s *AuthService) RequireAdminUser(ctx context.Context, token string) (*entities.AdminUser, error) {
	if token == "" {
		return nil, entities.ErrUnauthenticated
	}

	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUnauthenticated, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, entities.ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading session user: %w", err)
	}

	if s.adminEmail == "" || user.Email != s.adminEmail {
		return nil, entities.ErrForbidden
	}

	return &entities.AdminUser{ID: user.ID, Email: user.Email}, nil
}

// OptionalAdminUser returns the admin user for a token, or nil for anyone else
func (s *AuthService) OptionalAdminUser(ctx context.Context, token string) *entities.AdminUser {
	admin, err := s.RequireAdminUser(ctx, token)
	if err != nil {
		return nil
	}
	return admin
}

// CreateUser registers an account with a hashed password
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (*entities.User, error) {
	email = entities.NormalizeEmail(email)
	if err := entities.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", email, err)
	}

	return user, nil
}

// Ensure AuthService implements ports.AuthService
var _ ports.AuthService = (*AuthService)(nil)
