package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// sessionToken reads the session cookie, or "" when absent
func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.config.Auth.GetCookieName())
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Auth.GetCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.config.Auth.GetSessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.config.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Auth.GetCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// optionalAdmin resolves the admin user for the request, or nil
func (s *Server) optionalAdmin(r *http.Request) *entities.AdminUser {
	if admin := adminFrom(r.Context()); admin != nil {
		return admin
	}
	token := s.sessionToken(r)
	if token == "" {
		return nil
	}
	return s.services.Auth.OptionalAdminUser(r.Context(), token)
}

func withAdmin(ctx context.Context, admin *entities.AdminUser) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func adminFrom(ctx context.Context) *entities.AdminUser {
	admin, _ := ctx.Value(adminKey).(*entities.AdminUser)
	return admin
}

// loginURL builds the sign-in URL that returns to the current page
func loginURL(r *http.Request) string {
	return "/login?" + url.Values{"redirectTo": {r.URL.RequestURI()}}.Encode()
}

// safeRedirect returns to when it is a local path, otherwise fallback.
// Protocol relative and backslash tricks are rejected.
func safeRedirect(to, fallback string) string {
	if to == "" || !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.Contains(to, `\`) {
		return fallback
	}
	return to
}
