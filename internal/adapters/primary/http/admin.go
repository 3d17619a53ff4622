package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

const (
	maxFormBytes  = 1 << 20
	maxFormMemory = 256 << 10
)

// requireAdmin guards next: anonymous visitors are sent to the login page,
// signed-in non-admins get a 403
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := s.services.Auth.RequireAdminUser(r.Context(), s.sessionToken(r))
		switch {
		case err == nil:
			next(w, r.WithContext(withAdmin(r.Context(), admin)))
		case errors.Is(err, entities.ErrUnauthenticated):
			if s.sessionToken(r) != "" {
				s.clearSessionCookie(w)
			}
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
		case errors.Is(err, entities.ErrForbidden):
			s.renderError(w, r, http.StatusForbidden, err)
		default:
			s.renderError(w, r, http.StatusInternalServerError, err)
		}
	})
}

// handleAdminIndex lists posts with edit links and the create link
func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := s.services.Posts.ListPostListings(ctx)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	html, err := s.services.Pages.RenderAdminIndex(ctx, ports.PostListPage{
		Page:  s.page(adminFrom(ctx)),
		Posts: posts,
	})
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeHTML(w, http.StatusOK, html)
}

// handlePostForm renders an empty form for "new", otherwise the stored post
func (s *Server) handlePostForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]

	page := ports.PostFormPage{
		Page:  s.page(adminFrom(ctx)),
		IsNew: slug == entities.NewPostSlug,
		Slug:  slug,
	}

	if !page.IsNew {
		post, err := s.services.Posts.GetPost(ctx, slug)
		if err != nil {
			s.renderError(w, r, statusForError(err), err)
			return
		}
		page.Values = post.Input()
	}

	s.renderPostForm(w, r, http.StatusOK, page)
}

// handlePostSubmit runs a form submission through the post form controller
func (s *Server) handlePostSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	// PostForm holds only text values, so a file uploaded under a field
	// name reads as missing and is rejected as malformed
	sub := entities.Submission{
		Intent:     entities.Intent(r.PostForm.Get(entities.FieldIntent)),
		TargetSlug: slug,
		Fields:     r.PostForm,
	}

	// every controller error is fatal for the request: malformed fields,
	// duplicate slugs and vanished posts all get the generic failure page
	outcome, err := s.services.Forms.Submit(ctx, sub)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	if !outcome.IsRedirect() {
		s.renderPostForm(w, r, http.StatusUnprocessableEntity, ports.PostFormPage{
			Page:   s.page(adminFrom(ctx)),
			IsNew:  sub.IsNew(),
			Slug:   slug,
			Values: outcome.Values,
			Errors: outcome.Errors,
		})
		return
	}

	s.announce(sub)
	http.Redirect(w, r, outcome.Location, http.StatusSeeOther)
}

// parseForm accepts urlencoded and multipart bodies. ParseMultipartForm hides
// body read errors behind ErrNotMultipart, so the two are parsed separately.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// announce tells websocket clients which post changed
func (s *Server) announce(sub entities.Submission) {
	event := ports.UpdateEvent{Timestamp: time.Now()}
	slug := sub.TargetSlug

	switch {
	case sub.Intent.IsDelete():
		event.Type = ports.EventTypePostDeleted
	case sub.IsNew():
		event.Type = ports.EventTypePostCreated
		slug = sub.Fields.Get(entities.FieldSlug)
	default:
		event.Type = ports.EventTypePostUpdated
		slug = sub.Fields.Get(entities.FieldSlug)
	}
	event.Data = map[string]string{"slug": slug, "previous_slug": sub.TargetSlug}

	if err := s.NotifyClients(event); err != nil {
		s.logger.Debug("Skipped %s event for %s: %v", event.Type, slug, err)
	}
}

func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, status int, page ports.PostFormPage) {
	html, err := s.services.Pages.RenderPostForm(r.Context(), page)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeHTML(w, status, html)
}
