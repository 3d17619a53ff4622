package ports

import (
	"context"
	"html/template"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// Page carries the data shared by every rendered page
type Page struct {
	SiteTitle string
	Title     string
	Admin     *entities.AdminUser
}

// PostListPage is the data of the public and admin listings
type PostListPage struct {
	Page
	Posts []entities.PostListing
}

// PostPage is the data of a single rendered post
type PostPage struct {
	Page
	Post *entities.Post
	HTML template.HTML
}

// PostFormPage is the data of the admin create/edit form
type PostFormPage struct {
	Page
	IsNew  bool
	Slug   string
	Values entities.PostInput
	Errors entities.ValidationResult
}

// LoginPage is the data of the sign-in form
type LoginPage struct {
	Page
	Email      string
	RedirectTo string
	Error      string
}

// ErrorPage is the data of a generic failure page
type ErrorPage struct {
	Page
	Status  int
	Message string
}

// PageRenderer renders the HTML pages of the blog
type PageRenderer interface {
	RenderPostList(ctx context.Context, page PostListPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderAdminIndex(ctx context.Context, page PostListPage) ([]byte, error)
	RenderPostForm(ctx context.Context, page PostFormPage) ([]byte, error)
	RenderLogin(ctx context.Context, page LoginPage) ([]byte, error)
	RenderError(ctx context.Context, page ErrorPage) ([]byte, error)
}
