package ports

import (
	"context"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// RenderedPost is a post together with its sanitized HTML body
type RenderedPost struct {
	Post *entities.Post
	HTML string
}

// PostService defines the read side of the blog
type PostService interface {
	// ListPostListings returns all post listings, newest first
	ListPostListings(ctx context.Context) ([]entities.PostListing, error)

	// GetPost returns a single post
	GetPost(ctx context.Context, slug string) (*entities.Post, error)

	// RenderPost returns a post with its markdown rendered to HTML
	RenderPost(ctx context.Context, slug string) (*RenderedPost, error)
}

// PostFormController processes admin post form submissions
type PostFormController interface {
	// Submit validates a submission and applies exactly one create, update or
	// delete. Validation failures are returned as an invalid Outcome, not an error.
	Submit(ctx context.Context, sub entities.Submission) (entities.Outcome, error)
}

// AuthService defines sign-in and the admin guard
type AuthService interface {
	// Login checks credentials and returns a session token
	Login(ctx context.Context, email, password string) (string, *entities.User, error)

	// RequireAdminUser resolves a session token to an admin user
	RequireAdminUser(ctx context.Context, token string) (*entities.AdminUser, error)

	// OptionalAdminUser returns the admin user for a token, or nil
	OptionalAdminUser(ctx context.Context, token string) *entities.AdminUser

	// CreateUser registers a new account
	CreateUser(ctx context.Context, email, password string) (*entities.User, error)
}
