package builders

import (
	"time"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// UserBuilder helps build User entities for testing
type UserBuilder struct {
	user *entities.User
}

// NewUserBuilder creates a user with a placeholder password hash
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: &entities.User{
			ID:           "00000000-0000-0000-0000-000000000001",
			Email:        "admin@example.com",
			PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplace",
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// WithID sets the user id
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = id
	return b
}

// WithEmail sets the user email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithPasswordHash sets the stored hash
func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

// Build returns a copy of the built user
func (b *UserBuilder) Build() *entities.User {
	user := *b.user
	return &user
}

// Admin returns the AdminUser view of the built user
func (b *UserBuilder) Admin() *entities.AdminUser {
	return &entities.AdminUser{ID: b.user.ID, Email: b.user.Email}
}
