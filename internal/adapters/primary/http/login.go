package http

import (
	"errors"
	"net/http"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

const defaultLoginRedirect = "/posts"

// handleLoginForm renders the sign-in form
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, ports.LoginPage{
		RedirectTo: safeRedirect(r.URL.Query().Get("redirectTo"), defaultLoginRedirect),
	})
}

// handleLogin checks credentials, sets the session cookie and redirects
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	email := r.PostForm.Get("email")
	redirectTo := safeRedirect(r.PostForm.Get("redirectTo"), defaultLoginRedirect)

	token, user, err := s.services.Auth.Login(r.Context(), email, r.PostForm.Get("password"))
	if errors.Is(err, entities.ErrInvalidCredentials) {
		s.logger.Warn("Failed sign-in for %q from %s", email, s.ips.clientIP(r))
		s.renderLogin(w, r, http.StatusUnauthorized, ports.LoginPage{
			Email:      email,
			RedirectTo: redirectTo,
			Error:      "Invalid email or password",
		})
		return
	}
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.setSessionCookie(w, token)
	s.logger.Success("User %s signed in", user.Email)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// handleLogout clears the session cookie
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	http.Redirect(w, r, defaultLoginRedirect, http.StatusSeeOther)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, page ports.LoginPage) {
	page.Page = s.page(nil)
	html, err := s.services.Pages.RenderLogin(r.Context(), page)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeHTML(w, status, html)
}
