package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/session"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"

	// SessionCookieName holds the auth session token
	SessionCookieName = "session"
)

// GetSession retrieves the request's session context. Returns nil outside
// the Session middleware.
func GetSession(ctx context.Context) *session.Context {
	sess, _ := ctx.Value(sessionContextKey).(*session.Context)
	return sess
}

// GetUser retrieves the signed-in user from the request context
// Returns nil if no user is authenticated
func GetUser(ctx context.Context) *model.User {
	if sess := GetSession(ctx); sess != nil {
		return sess.User()
	}
	return nil
}

// Session returns middleware that recovers the session from the cookie.
// Stale cookies are cleared and the request continues signed out.
func Session(client session.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.New(client)

			token := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}
			if err := sess.Init(r.Context(), token); err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if token != "" && sess.User() == nil {
				ClearSessionCookie(w)
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser returns middleware that requires a signed-in user
// Redirects to the sign-in page if not authenticated
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r.Context()) == nil {
				SetFlash(w, "error", "Please sign in")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that rejects users without the admin role
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil || !user.IsAdmin() {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie stores the session token
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session token
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
