package middleware

import (
	"net/http"

	"github.com/Bernardstanislas/secretariat/internal/auth"
)

// SessionMiddleware puts the session username, if any, in the request context.
func SessionMiddleware(sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := sessions.FromRequest(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.SetUsername(r.Context(), username)))
		})
	}
}

// RequireSession redirects anonymous requests to loginPath.
// Must run after SessionMiddleware.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.GetUsername(r.Context()) == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
