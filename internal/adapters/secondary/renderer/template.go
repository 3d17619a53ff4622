package renderer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names; each is parsed on top of the shared layout
const (
	pagePostList   = "post_list.html"
	pagePost       = "post.html"
	pageAdminIndex = "admin_index.html"
	pagePostForm   = "post_form.html"
	pageLogin      = "login.html"
	pageError      = "error.html"
)

// TemplateRenderer implements PageRenderer with html/template
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses the embedded layout and page templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{pagePostList, pagePost, pageAdminIndex, pagePostForm, pageLogin, pageError} {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		page, err := base.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = page
	}

	return &TemplateRenderer{pages: pages}, nil
}

// RenderPostList renders the public post index
func (r *TemplateRenderer) RenderPostList(ctx context.Context, page ports.PostListPage) ([]byte, error) {
	if page.Title == "" {
		page.Title = "Posts"
	}
	return r.execute(pagePostList, page)
}

// RenderPost renders a single post; page.HTML must already be sanitized
func (r *TemplateRenderer) RenderPost(ctx context.Context, page ports.PostPage) ([]byte, error) {
	if page.Post == nil {
		return nil, fmt.Errorf("rendering post page: no post")
	}
	if page.Title == "" {
		page.Title = page.Post.Title
	}
	return r.execute(pagePost, page)
}

// RenderAdminIndex renders the admin landing page
func (r *TemplateRenderer) RenderAdminIndex(ctx context.Context, page ports.PostListPage) ([]byte, error) {
	if page.Title == "" {
		page.Title = "Admin"
	}
	return r.execute(pageAdminIndex, page)
}

// RenderPostForm renders the create/edit form with any field errors inline
func (r *TemplateRenderer) RenderPostForm(ctx context.Context, page ports.PostFormPage) ([]byte, error) {
	if page.Title == "" {
		if page.IsNew {
			page.Title = "New Post"
		} else {
			page.Title = "Edit " + page.Values.Title
		}
	}
	return r.execute(pagePostForm, page)
}

// RenderLogin renders the sign-in form
func (r *TemplateRenderer) RenderLogin(ctx context.Context, page ports.LoginPage) ([]byte, error) {
	if page.Title == "" {
		page.Title = "Log in"
	}
	return r.execute(pageLogin, page)
}

// RenderError renders a generic error page
func (r *TemplateRenderer) RenderError(ctx context.Context, page ports.ErrorPage) ([]byte, error) {
	if page.Title == "" {
		page.Title = "Error"
	}
	return r.execute(pageError, page)
}

func (r *TemplateRenderer) execute(name string, data interface{}) ([]byte, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Ensure TemplateRenderer implements ports.PageRenderer
var _ ports.PageRenderer = (*TemplateRenderer)(nil)
