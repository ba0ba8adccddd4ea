package auth

import (
	"log/slog"
	"net/http"

	"github.com/meridian-club/meridian/internal/shared"
)

// Middleware wires the two access guards for HTTP handlers. The guards
// have deliberately different failure modes: a missing login is a soft
// redirect to the login page, an insufficient role is a hard 403.
type Middleware struct {
	Logger *slog.Logger
}

// Forbidden is invoked for role failures. It is overridable so the
// router can install an HTML error page renderer; the default is a
// plain-text 403.
var defaultForbidden = func(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// ForbiddenHandler renders the 403 response for admin guard failures.
type ForbiddenHandler func(w http.ResponseWriter, r *http.Request)

// RequireUser ensures a logged-in user is attached to the session.
// Anonymous callers are redirected to the login page and processing
// stops.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures a logged-in user holding the admin role.
// Anonymous callers get the login redirect; authenticated non-admins
// get a forbidden response, never a redirect.
func (m Middleware) RequireAdmin(forbidden ForbiddenHandler) func(http.Handler) http.Handler {
	if forbidden == nil {
		forbidden = defaultForbidden
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := shared.CurrentUser(r.Context())
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !user.IsAdmin() {
				if m.Logger != nil {
					m.Logger.Warn("admin guard rejected user",
						slog.Int64("user_id", user.ID),
						slog.String("path", r.URL.Path))
				}
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
