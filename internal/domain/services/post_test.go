package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

func TestPostService_ListPostListings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns listings from repository", func(t *testing.T) {
		repo := new(MockPostRepository)
		listings := []entities.PostListing{
			{Slug: "second", Title: "Second"},
			{Slug: "first", Title: "First"},
		}
		repo.On("ListListings", ctx).Return(listings, nil)

		service := NewPostService(repo, new(MockMarkdownRenderer))
		got, err := service.ListPostListings(ctx)

		require.NoError(t, err)
		assert.Equal(t, listings, got)
	})

	t.Run("wraps repository error", func(t *testing.T) {
		repo := new(MockPostRepository)
		boom := errors.New("database is locked")
		repo.On("ListListings", ctx).Return(nil, boom)

		service := NewPostService(repo, new(MockMarkdownRenderer))
		_, err := service.ListPostListings(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "listing posts")
	})
}

func TestPostService_GetPost(t *testing.T) {
	ctx := context.Background()

	t.Run("empty slug", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := NewPostService(repo, new(MockMarkdownRenderer))

		_, err := service.GetPost(ctx, "")

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("not found keeps sentinel", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Get", ctx, "nope").Return(nil, entities.ErrPostNotFound)

		service := NewPostService(repo, new(MockMarkdownRenderer))
		_, err := service.GetPost(ctx, "nope")

		assert.ErrorIs(t, err, entities.ErrPostNotFound)
	})
}

func TestPostService_RenderPost(t *testing.T) {
	ctx := context.Background()
	post := &entities.Post{Slug: "hi", Title: "Hi", Markdown: "# Hello"}

	t.Run("renders markdown", func(t *testing.T) {
		repo := new(MockPostRepository)
		md := new(MockMarkdownRenderer)
		repo.On("Get", ctx, "hi").Return(post, nil)
		md.On("Render", ctx, "# Hello").Return("<h1>Hello</h1>", nil)

		service := NewPostService(repo, md)
		rendered, err := service.RenderPost(ctx, "hi")

		require.NoError(t, err)
		assert.Equal(t, post, rendered.Post)
		assert.Equal(t, "<h1>Hello</h1>", rendered.HTML)
		md.AssertExpectations(t)
	})

	t.Run("render failure", func(t *testing.T) {
		repo := new(MockPostRepository)
		md := new(MockMarkdownRenderer)
		repo.On("Get", ctx, "hi").Return(post, nil)
		md.On("Render", ctx, "# Hello").Return("", errors.New("bad input"))

		service := NewPostService(repo, md)
		_, err := service.RenderPost(ctx, "hi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), `rendering post "hi"`)
	})

	t.Run("missing post is not rendered", func(t *testing.T) {
		repo := new(MockPostRepository)
		md := new(MockMarkdownRenderer)
		repo.On("Get", ctx, "gone").Return(nil, entities.ErrPostNotFound)

		service := NewPostService(repo, md)
		_, err := service.RenderPost(ctx, "gone")

		assert.ErrorIs(t, err, entities.ErrPostNotFound)
		md.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})
}
