package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// HealthResponse is the /healthz payload
type HealthResponse struct {
	Status  string                 `json:"status"`
	Clients int                    `json:"websocket_clients"`
	Time    time.Time              `json:"time"`
	Runtime *entities.RuntimeStats `json:"runtime,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/posts", http.StatusFound)
}

// handleHealth reports whether the server and its store are reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	resp := HealthResponse{Status: "ok", Clients: s.connMgr.Count(), Time: time.Now().UTC()}

	if s.services.Health != nil {
		if err := s.services.Health(r.Context()); err != nil {
			s.logger.Error("Health check failed: %v", err)
			status = http.StatusServiceUnavailable
			resp.Status = "unavailable"
		}
	}

	if s.services.Metrics != nil {
		stats := s.services.Metrics.Snapshot()
		resp.Runtime = &stats
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode health response: %v", err)
	}
}

// handlePostList serves the public listing, with an admin link for the admin
func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := s.services.Posts.ListPostListings(ctx)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	html, err := s.services.Pages.RenderPostList(ctx, ports.PostListPage{
		Page:  s.page(s.optionalAdmin(r)),
		Posts: posts,
	})
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeHTML(w, http.StatusOK, html)
}

// handlePost serves a single rendered post
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]

	rendered, err := s.services.Posts.RenderPost(ctx, slug)
	if err != nil {
		s.renderError(w, r, statusForError(err), err)
		return
	}

	html, err := s.services.Pages.RenderPost(ctx, ports.PostPage{
		Page: s.page(s.optionalAdmin(r)),
		Post: rendered.Post,
		HTML: template.HTML(rendered.HTML), // #nosec G203 - sanitized by the markdown renderer
	})
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, errors.New("no route for "+r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusMethodNotAllowed, errors.New(r.Method+" not allowed on "+r.URL.Path))
}

// statusForError maps read-path domain errors to HTTP statuses. Malformed
// submissions and duplicate slugs are server errors; the page never says which.
func statusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes an error page with a sanitized message; err itself is
// only logged
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusForbidden:
		message = "You do not have access to this page"
	case http.StatusNotFound:
		message = "Page not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	default:
		message = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d) [%s]: %v", status, requestIDFrom(r.Context()), err)
	} else {
		s.logger.Debug("HTTP %d [%s]: %v", status, requestIDFrom(r.Context()), err)
	}

	page := s.page(adminFrom(r.Context()))
	html, renderErr := s.services.Pages.RenderError(r.Context(), ports.ErrorPage{
		Page:    page,
		Status:  status,
		Message: message,
	})
	if renderErr != nil {
		s.logger.Error("Failed to render error page: %v", renderErr)
		http.Error(w, message, status)
		return
	}

	s.writeHTML(w, status, html)
}

// page fills the data shared by every page
func (s *Server) page(admin *entities.AdminUser) ports.Page {
	return ports.Page{
		SiteTitle: s.config.Site.GetTitle(),
		Admin:     admin,
	}
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("Failed to write response: %v", err)
	}
}
