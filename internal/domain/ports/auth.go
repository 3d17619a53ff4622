package ports

import (
	"time"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// SessionClaims is what a session token asserts about its bearer
type SessionClaims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// SessionManager issues and verifies session tokens
type SessionManager interface {
	Issue(user *entities.User) (token string, expiresAt time.Time, err error)
	Parse(token string) (*SessionClaims, error)
}

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
