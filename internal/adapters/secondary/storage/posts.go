package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// PostRepository stores posts in the posts table
type PostRepository struct {
	db *DB
}

// NewPostRepository creates a post repository on db
func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// Get loads a post by slug
func (r *PostRepository) Get(ctx context.Context, slug string) (*entities.Post, error) {
	var post entities.Post
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT slug, title, markdown, created_at, updated_at FROM posts WHERE slug = ?`, slug,
	).Scan(&post.Slug, &post.Title, &post.Markdown, &post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post %q: %w", slug, err)
	}
	return &post, nil
}

// ListListings returns every post's slug and title, newest first
func (r *PostRepository) ListListings(ctx context.Context) ([]entities.PostListing, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT slug, title FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	listings := []entities.PostListing{}
	for rows.Next() {
		var l entities.PostListing
		if err := rows.Scan(&l.Slug, &l.Title); err != nil {
			return nil, fmt.Errorf("scanning post listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Create inserts a post. A taken slug yields ErrPostAlreadyExists.
func (r *PostRepository) Create(ctx context.Context, in entities.PostInput) (*entities.Post, error) {
	now := r.db.clock.Now().UTC()
	post := &entities.Post{
		Slug:      in.Slug,
		Title:     in.Title,
		Markdown:  in.Markdown,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO posts (slug, title, markdown, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		post.Slug, post.Title, post.Markdown, post.CreatedAt, post.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, entities.ErrPostAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("inserting post %q: %w", in.Slug, err)
	}
	return post, nil
}

// Update replaces the post stored under slug; in.Slug may rename it.
// A missing post yields ErrPostNotFound and a rename onto a taken slug
// yields ErrPostAlreadyExists.
func (r *PostRepository) Update(ctx context.Context, slug string, in entities.PostInput) (*entities.Post, error) {
	now := r.db.clock.Now().UTC()

	res, err := r.db.sql.ExecContext(ctx,
		`UPDATE posts SET slug = ?, title = ?, markdown = ?, updated_at = ? WHERE slug = ?`,
		in.Slug, in.Title, in.Markdown, now, slug)
	if isUniqueViolation(err) {
		return nil, entities.ErrPostAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("updating post %q: %w", slug, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, entities.ErrPostNotFound
	}

	return r.Get(ctx, in.Slug)
}

// Delete removes the post stored under slug
func (r *PostRepository) Delete(ctx context.Context, slug string) error {
	res, err := r.db.sql.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting post %q: %w", slug, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrPostNotFound
	}
	return nil
}

// Ensure PostRepository implements ports.PostRepository
var _ ports.PostRepository = (*PostRepository)(nil)
