package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

type authFixture struct {
	users    *MockUserRepository
	sessions *MockSessionManager
	hasher   *MockPasswordHasher
	clock    ports.FixedTimeProvider
	service  *AuthService
}

func newAuthFixture(adminEmail string) *authFixture {
	f := &authFixture{
		users:    new(MockUserRepository),
		sessions: new(MockSessionManager),
		hasher:   new(MockPasswordHasher),
		clock:    ports.FixedTimeProvider{T: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.service = NewAuthService(f.users, f.sessions, f.hasher, f.clock, adminEmail)
	return f
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := &entities.User{ID: "u1", Email: "admin@example.com", PasswordHash: "hash"}

	t.Run("valid credentials", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.users.On("GetByEmail", ctx, "admin@example.com").Return(user, nil)
		f.hasher.On("Compare", "hash", "correct horse").Return(true)
		f.sessions.On("Issue", user).Return("token", time.Now(), nil)

		token, got, err := f.service.Login(ctx, "  Admin@Example.com ", "correct horse")

		require.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Equal(t, user, got)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.users.On("GetByEmail", ctx, "who@example.com").Return(nil, entities.ErrUserNotFound)

		_, _, err := f.service.Login(ctx, "who@example.com", "whatever1")

		assert.Equal(t, entities.ErrInvalidCredentials, err)
		f.sessions.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.users.On("GetByEmail", ctx, "admin@example.com").Return(user, nil)
		f.hasher.On("Compare", "hash", "wrong").Return(false)

		_, _, err := f.service.Login(ctx, "admin@example.com", "wrong")

		assert.Equal(t, entities.ErrInvalidCredentials, err)
		f.sessions.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("storage failure is not reported as bad credentials", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.users.On("GetByEmail", ctx, "admin@example.com").Return(nil, errors.New("disk I/O error"))

		_, _, err := f.service.Login(ctx, "admin@example.com", "pw")

		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestAuthService_RequireAdminUser(t *testing.T) {
	ctx := context.Background()
	admin := &entities.User{ID: "u1", Email: "admin@example.com"}
	reader := &entities.User{ID: "u2", Email: "reader@example.com"}

	t.Run("no token", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")

		_, err := f.service.RequireAdminUser(ctx, "")

		assert.ErrorIs(t, err, entities.ErrUnauthenticated)
		f.sessions.AssertNotCalled(t, "Parse", mock.Anything)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.sessions.On("Parse", "garbage").Return(nil, errors.New("token is malformed"))

		_, err := f.service.RequireAdminUser(ctx, "garbage")

		assert.ErrorIs(t, err, entities.ErrUnauthenticated)
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.sessions.On("Parse", "tok").Return(&ports.SessionClaims{UserID: "u9"}, nil)
		f.users.On("GetByID", ctx, "u9").Return(nil, entities.ErrUserNotFound)

		_, err := f.service.RequireAdminUser(ctx, "tok")

		assert.ErrorIs(t, err, entities.ErrUnauthenticated)
	})

	t.Run("admin", func(t *testing.T) {
		f := newAuthFixture("Admin@Example.com")
		f.sessions.On("Parse", "tok").Return(&ports.SessionClaims{UserID: "u1"}, nil)
		f.users.On("GetByID", ctx, "u1").Return(admin, nil)

		got, err := f.service.RequireAdminUser(ctx, "tok")

		require.NoError(t, err)
		assert.Equal(t, &entities.AdminUser{ID: "u1", Email: "admin@example.com"}, got)
	})

	t.Run("signed in but not admin", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.sessions.On("Parse", "tok").Return(&ports.SessionClaims{UserID: "u2"}, nil)
		f.users.On("GetByID", ctx, "u2").Return(reader, nil)

		_, err := f.service.RequireAdminUser(ctx, "tok")

		assert.ErrorIs(t, err, entities.ErrForbidden)
	})

	t.Run("no admin configured", func(t *testing.T) {
		f := newAuthFixture("")
		f.sessions.On("Parse", "tok").Return(&ports.SessionClaims{UserID: "u1"}, nil)
		f.users.On("GetByID", ctx, "u1").Return(admin, nil)

		_, err := f.service.RequireAdminUser(ctx, "tok")

		assert.ErrorIs(t, err, entities.ErrForbidden)
	})
}

func TestAuthService_OptionalAdminUser(t *testing.T) {
	ctx := context.Background()

	f := newAuthFixture("admin@example.com")
	f.sessions.On("Parse", "tok").Return(&ports.SessionClaims{UserID: "u1"}, nil)
	f.users.On("GetByID", ctx, "u1").Return(&entities.User{ID: "u1", Email: "admin@example.com"}, nil)

	assert.Nil(t, f.service.OptionalAdminUser(ctx, ""))
	assert.NotNil(t, f.service.OptionalAdminUser(ctx, "tok"))
}

func TestAuthService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and stamps creation time", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.hasher.On("Hash", "correct horse").Return("$2a$hash", nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*entities.User")).Return(nil)

		user, err := f.service.CreateUser(ctx, "Admin@Example.com", "correct horse")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.Equal(t, "$2a$hash", user.PasswordHash)
		assert.Equal(t, f.clock.T, user.CreatedAt)
	})

	t.Run("rejects short password before hashing", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")

		_, err := f.service.CreateUser(ctx, "admin@example.com", "short")

		assert.Error(t, err)
		f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture("admin@example.com")
		f.hasher.On("Hash", mock.Anything).Return("h", nil)
		f.users.On("Create", ctx, mock.Anything).Return(entities.ErrUserAlreadyExists)

		_, err := f.service.CreateUser(ctx, "admin@example.com", "correct horse")

		assert.ErrorIs(t, err, entities.ErrUserAlreadyExists)
	})
}
