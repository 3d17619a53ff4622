package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// PostService implements the read side of the blog
type PostService struct {
	repo     ports.PostRepository
	markdown ports.MarkdownRenderer
}

// NewPostService creates a new post service instance
func NewPostService(repo ports.PostRepository, markdown ports.MarkdownRenderer) *PostService {
	return &PostService{
		repo:     repo,
		markdown: markdown,
	}
}

// ListPostListings returns slug/title pairs for every post
func (s *PostService) ListPostListings(ctx context.Context) ([]entities.PostListing, error) {
	listings, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return listings, nil
}

// GetPost loads a post by slug
func (s *PostService) GetPost(ctx context.Context, slug string) (*entities.Post, error) {
	if slug == "" {
		return nil, errors.New("post slug cannot be empty")
	}

	post, err := s.repo.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("loading post %q: %w", slug, err)
	}
	return post, nil
}

// RenderPost loads a post and renders its markdown to sanitized HTML
func (s *PostService) RenderPost(ctx context.Context, slug string) (*ports.RenderedPost, error) {
	post, err := s.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}

	html, err := s.markdown.Render(ctx, post.Markdown)
	if err != nil {
		return nil, fmt.Errorf("rendering post %q: %w", slug, err)
	}

	return &ports.RenderedPost{Post: post, HTML: html}, nil
}

// Ensure PostService implements ports.PostService
var _ ports.PostService = (*PostService)(nil)
