package ports

import (
	"context"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// PostRepository defines the persistence operations for posts
type PostRepository interface {
	// Get returns the post stored under slug, or entities.ErrPostNotFound
	Get(ctx context.Context, slug string) (*entities.Post, error)

	// ListListings returns slug/title pairs for all posts, newest first
	ListListings(ctx context.Context) ([]entities.PostListing, error)

	// Create stores a new post, or returns entities.ErrPostAlreadyExists
	Create(ctx context.Context, in entities.PostInput) (*entities.Post, error)

	// Update replaces the post stored under slug; in.Slug may rename it
	Update(ctx context.Context, slug string, in entities.PostInput) (*entities.Post, error)

	// Delete removes the post stored under slug
	Delete(ctx context.Context, slug string) error
}

// UserRepository defines the persistence operations for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
