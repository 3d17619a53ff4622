package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

const sessionIssuer = "inkpost"

// MinSecretLength is the shortest HMAC secret accepted for signing sessions
const MinSecretLength = 32

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTSessionManager issues and verifies HS256 signed session tokens
type JWTSessionManager struct {
	secret []byte
	ttl    time.Duration
	clock  ports.TimeProvider
}

// NewJWTSessionManager creates a session manager. Tokens expire ttl after issue.
func NewJWTSessionManager(secret string, ttl time.Duration, clock ports.TimeProvider) (*JWTSessionManager, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}

	return &JWTSessionManager{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// Issue signs a token for user
func (m *JWTSessionManager) Issue(user *entities.User) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, errors.New("cannot issue a session without a user id")
	}

	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies the signature, issuer and expiry of token
func (m *JWTSessionManager) Parse(token string) (*ports.SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)

	claims := &sessionClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("session has no subject")
	}

	return &ports.SessionClaims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Ensure JWTSessionManager implements ports.SessionManager
var _ ports.SessionManager = (*JWTSessionManager)(nil)
